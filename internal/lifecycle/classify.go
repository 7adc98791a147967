package lifecycle

// Classification is the derived view state of one sample.
type Classification struct {
	StatusID    StatusID `json:"status_id"`
	StatusLabel string   `json:"status_label"`
	IsArchived  bool     `json:"is_archived"`
	IsAnalyzed  bool     `json:"is_analyzed"`
	IsPending   bool     `json:"is_pending"`
}

// Classify derives the lifecycle category of a sample from its raw status and
// deletion flag. Both inputs may be nil.
func Classify(status *int, isDeleted *bool) Classification {
	id := Resolve(status)
	deleted := isDeleted != nil && *isDeleted

	c := Classification{
		StatusID:    id,
		StatusLabel: id.Label(),
		IsArchived:  id == StatusArchived || deleted,
		IsAnalyzed:  id.IsDone(),
	}
	c.IsPending = !c.IsAnalyzed && !c.IsArchived
	return c
}

// ClassifyStatus is Classify for callers holding a non-null status and no deletion flag.
func ClassifyStatus(id StatusID) Classification {
	raw := int(id)
	return Classify(&raw, nil)
}

// Actions returns the UI actions permitted for this classification.
func (c Classification) Actions() []Action {
	return ActionsFor(c)
}

// Allows reports whether the action is permitted for this classification.
func (c Classification) Allows(a Action) bool {
	for _, allowed := range ActionsFor(c) {
		if allowed == a {
			return true
		}
	}
	return false
}
