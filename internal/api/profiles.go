package api

import (
	"errors"
	"net/http"

	"grimm.is/netdevd/internal/profile"
)

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	conns, err := s.store.List()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, documents(conns))
}

// putProfileResponse reports the saved profile and the devices that
// accept it now but rejected it before the edit.
type putProfileResponse struct {
	Profile       *profile.Document `json:"profile"`
	NowCompatible []string          `json:"now_compatible"`
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	uuid := r.PathValue("uuid")

	var doc profile.Document
	if err := decodeBody(w, r, &doc); err != nil {
		WriteErrorCtx(w, r, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if doc.Connection.UUID == "" {
		doc.Connection.UUID = uuid
	}
	if doc.Connection.UUID != uuid {
		WriteErrorCtx(w, r, http.StatusBadRequest, "profile uuid does not match the request path")
		return
	}

	conn, err := doc.ToConnection()
	if err != nil {
		WriteErrorCtx(w, r, http.StatusBadRequest, "invalid profile: %v", err)
		return
	}
	if err := conn.Verify(); err != nil {
		WriteErrorCtx(w, r, http.StatusUnprocessableEntity, "invalid profile: %v", err)
		return
	}
	if err := s.store.Save(conn); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	accepted, err := s.devices.ProfileChanged(uuid)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accepted == nil {
		accepted = []string{}
	}
	WriteJSON(w, http.StatusOK, putProfileResponse{
		Profile:       profile.NewDocument(conn),
		NowCompatible: accepted,
	})
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	uuid := r.PathValue("uuid")
	if err := s.store.Delete(uuid); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			WriteErrorCtx(w, r, http.StatusNotFound, "profile not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Forget pending pairings for the deleted profile.
	if _, err := s.devices.ProfileChanged(uuid); err != nil {
		s.log.Warn("failed to drop pending profile", "uuid", uuid, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
