package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"lab-reception/internal/backend"
	"lab-reception/internal/icons"
	"lab-reception/internal/models"
	"lab-reception/internal/summary"
	"lab-reception/internal/timeutil"

	"go.uber.org/zap"
)

const (
	maxTasks    = 3
	maxActivity = 4
)

// Task is an entry of the pending-tasks panel.
type Task struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Icon     string `json:"icon"`
}

// Activity is an entry of the recent-activity timeline.
type Activity struct {
	Initials string    `json:"initials"`
	Name     string    `json:"name"`
	Action   string    `json:"action"`
	Time     string    `json:"time"`
	At       time.Time `json:"at"`
}

// DashboardStats holds the counters of the four KPI cards.
type DashboardStats struct {
	Clients  summary.ClientCounts  `json:"clients"`
	Requests summary.RequestCounts `json:"requests"`
	Samples  summary.SampleCounts  `json:"samples"`
	Results  summary.ResultCounts  `json:"results"`
}

type Dashboard struct {
	Stats    DashboardStats `json:"stats"`
	Tasks    []Task         `json:"tasks"`
	Activity []Activity     `json:"activity"`
	// Degraded names the lists that failed to load and were counted as empty.
	Degraded []string `json:"degraded"`
}

type DashboardService struct {
	Backend *backend.Client
	logger  *zap.Logger
	now     func() time.Time
}

func NewDashboardService(client *backend.Client, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{Backend: client, logger: logger.Named("dashboard"), now: timeutil.Now}
}

// dashboardData is the raw input of one dashboard render.
type dashboardData struct {
	clients  []models.Customer
	requests []models.ServiceRequest
	samples  []models.Sample
	results  []models.AnalysisResult
}

// Load fetches the four lists in parallel. A failing list degrades to empty.
func (s *DashboardService) Load(ctx context.Context) *Dashboard {
	var (
		data     dashboardData
		mu       sync.Mutex
		degraded []string
		wg       sync.WaitGroup
	)

	fail := func(name string, err error) {
		s.logger.Warn("dashboard list unavailable", zap.String("list", name), zap.Error(err))
		mu.Lock()
		degraded = append(degraded, name)
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		list, err := s.Backend.ListCustomers(ctx)
		if err != nil {
			fail("clients", err)
			return
		}
		data.clients = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.Backend.ListRequests(ctx)
		if err != nil {
			fail("requests", err)
			return
		}
		data.requests = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.Backend.ListSamples(ctx)
		if err != nil {
			fail("samples", err)
			return
		}
		data.samples = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.Backend.ListResults(ctx, false)
		if err != nil {
			fail("results", err)
			return
		}
		data.results = list
	}()
	wg.Wait()

	sort.Strings(degraded)
	if degraded == nil {
		degraded = []string{}
	}
	d := buildDashboard(data, s.now())
	d.Degraded = degraded
	return d
}

func buildDashboard(data dashboardData, now time.Time) *Dashboard {
	stats := DashboardStats{
		Clients:  summary.Clients(data.clients, 0),
		Requests: summary.Requests(data.requests, 0),
		Samples:  summary.Samples(data.samples, 0),
		Results:  summary.Results(data.results, 0, now),
	}
	return &Dashboard{
		Stats:    stats,
		Tasks:    pendingTasks(stats),
		Activity: recentActivity(data, now),
	}
}

// pendingTasks returns at most three tasks, or a single all-clear entry.
func pendingTasks(stats DashboardStats) []Task {
	var tasks []Task
	if n := stats.Samples.Pending; n > 0 {
		tasks = append(tasks, Task{
			Title:    "Análisis Pendientes",
			Subtitle: strconv.Itoa(n) + " muestras requieren atención",
			Icon:     icons.Class(icons.Flask),
		})
	}
	if n := stats.Clients.Inactive; n > 0 {
		tasks = append(tasks, Task{
			Title:    "Clientes Inactivos",
			Subtitle: strconv.Itoa(n) + " usuarios marcados como inactivos",
			Icon:     icons.Class(icons.Users),
		})
	}
	if stats.Requests.InProgress > 0 {
		tasks = append(tasks, Task{
			Title:    "Solicitudes Nuevas",
			Subtitle: "Falta recepcionar muestras físicas",
			Icon:     icons.Class(icons.CheckList),
		})
	}
	if len(tasks) == 0 {
		return []Task{{
			Title:    "Sin pendientes",
			Subtitle: "Todo el sistema está al día",
			Icon:     icons.Class(icons.Check),
		}}
	}
	if len(tasks) > maxTasks {
		tasks = tasks[:maxTasks]
	}
	return tasks
}

// recentActivity merges dated samples and requests, newest first. Entries
// without a parseable date are left out.
func recentActivity(data dashboardData, now time.Time) []Activity {
	var out []Activity
	for _, m := range summary.Dedupe(data.samples, func(m models.Sample) int { return m.SampleID }) {
		at, err := timeutil.ParseBackendDate(m.CollectionDate)
		if err != nil {
			continue
		}
		out = append(out, Activity{
			Initials: "MU",
			Name:     "Muestra " + m.SampleCode,
			Action:   "Recepcionada en laboratorio",
			At:       at,
		})
	}
	for _, r := range summary.Dedupe(data.requests, func(r models.ServiceRequest) int { return r.ServiceRequestID }) {
		at, err := timeutil.ParseBackendDate(r.RequestDate)
		if err != nil {
			continue
		}
		row := newRequestRow(r, nil)
		out = append(out, Activity{
			Initials: initials(row.Customer),
			Name:     "Solicitud #" + strconv.Itoa(r.ServiceRequestID),
			Action:   "Registrada para " + row.CustomerName,
			At:       at,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	if len(out) > maxActivity {
		out = out[:maxActivity]
	}
	for i := range out {
		out[i].Time = timeutil.TimeAgo(out[i].At, now)
	}
	if out == nil {
		out = []Activity{}
	}
	return out
}

func initials(c *models.RequestCustomer) string {
	first, second := "S", "O"
	if c != nil {
		if r := []rune(c.Name); len(r) > 0 {
			first = string(r[0])
		}
		if r := []rune(c.Surname); len(r) > 0 {
			second = string(r[0])
		}
	}
	return first + second
}
