package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"lab-reception/internal/backend"
	"lab-reception/internal/cart"
	"lab-reception/internal/selection"
	"lab-reception/internal/services"
	"lab-reception/internal/validate"
	"lab-reception/pkg/utils"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("Cuerpo de la solicitud inválido")

// writeError maps a use case error to its HTTP status and JSON body.
func writeError(w http.ResponseWriter, err error) {
	if fields, ok := validate.AsErrors(err); ok {
		utils.RespondFields(w, http.StatusBadRequest, "Revise los campos del formulario.", fields)
		return
	}

	var orphan *services.OrphanedAddressError
	if errors.As(err, &orphan) {
		utils.JSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":      orphan.Error(),
			"address_id": orphan.AddressID,
		})
		return
	}

	var apiErr *backend.APIError
	switch {
	case errors.Is(err, backend.ErrUnreachable):
		utils.RespondError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &apiErr):
		utils.RespondError(w, apiErr.Status, apiErr.Message)
	case errors.Is(err, validate.ErrInvalidID), errors.Is(err, errInvalidBody):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrActionNotAllowed):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnknownCatalog), errors.Is(err, services.ErrUnknownExport):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case isUnprocessable(err):
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}

func isUnprocessable(err error) bool {
	for _, target := range []error{
		validate.ErrEmptyReason, validate.ErrCustomerRequired, validate.ErrEmptyCart,
		cart.ErrCartFull, cart.ErrDuplicateService, cart.ErrInvalidQuantity,
		cart.ErrNoService, cart.ErrItemNotFound,
		services.ErrNothingToExport, services.ErrStaleSelection, services.ErrNoPDF,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeBody reads a JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidBody
}

func pathID(r *http.Request) (int, error) {
	return validate.ID(mux.Vars(r)["id"])
}

// listQuery reads ?selected=1,2&fp=…&q=…&view=…&include_deleted=true.
func listQuery(r *http.Request) services.ListQuery {
	q := r.URL.Query()
	return services.ListQuery{
		Selected:       selection.Parse(q.Get("selected")),
		Fingerprint:    q.Get("fp"),
		Search:         strings.TrimSpace(q.Get("q")),
		View:           q.Get("view"),
		IncludeDeleted: q.Get("include_deleted") == "true",
	}
}

// mutation is the response of every create/update/delete: the reloaded list,
// plus the created entity when there is one.
type mutation struct {
	Created interface{} `json:"created,omitempty"`
	Message string      `json:"message,omitempty"`
	View    interface{} `json:"view"`
}

func respondView(w http.ResponseWriter, status int, message string, created, view interface{}) {
	utils.JSON(w, status, mutation{Created: created, Message: message, View: view})
}
