package api

import (
	"errors"
	"net/http"

	"grimm.is/netdevd/internal/device"
	"grimm.is/netdevd/internal/profile"
	"grimm.is/netdevd/internal/setting"
)

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.devices.Devices())
}

func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	info, ok := s.devices.Device(name)
	if !ok {
		WriteErrorCtx(w, r, http.StatusNotFound, "device %s not found", name)
		return
	}
	WriteJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeviceProfiles(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	conns, err := s.devices.AvailableConnections(name)
	if err != nil {
		s.writeManagerError(w, r, name, err)
		return
	}
	WriteJSON(w, http.StatusOK, documents(conns))
}

// profileRequest selects a stored profile to repair. An empty UUID asks
// for a new profile.
type profileRequest struct {
	UUID string `json:"uuid,omitempty"`
}

func (s *Server) handleDeviceProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req profileRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			WriteErrorCtx(w, r, http.StatusBadRequest, "invalid request body: %v", err)
			return
		}
	}

	var (
		conn   *setting.Connection
		err    error
		status = http.StatusOK
	)
	if req.UUID == "" {
		conn, err = s.devices.GenerateConnection(name)
		status = http.StatusCreated
	} else {
		conn, err = s.devices.RepairConnection(name, req.UUID)
	}
	if err != nil {
		s.writeManagerError(w, r, name, err)
		return
	}
	WriteJSON(w, status, profile.NewDocument(conn))
}

type managedRequest struct {
	Managed bool `json:"managed"`
}

func (s *Server) handleDeviceManaged(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req managedRequest
	if err := decodeBody(w, r, &req); err != nil {
		WriteErrorCtx(w, r, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if err := s.devices.SetManaged(name, req.Managed); err != nil {
		s.writeManagerError(w, r, name, err)
		return
	}
	info, _ := s.devices.Device(name)
	WriteJSON(w, http.StatusOK, info)
}

func (s *Server) writeManagerError(w http.ResponseWriter, r *http.Request, name string, err error) {
	switch {
	case errors.Is(err, device.ErrNotFound):
		WriteErrorCtx(w, r, http.StatusNotFound, "device %s not found", name)
	case errors.Is(err, profile.ErrNotFound):
		WriteErrorCtx(w, r, http.StatusNotFound, "profile not found")
	default:
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func documents(conns []*setting.Connection) []*profile.Document {
	out := make([]*profile.Document, 0, len(conns))
	for _, c := range conns {
		out = append(out, profile.NewDocument(c))
	}
	return out
}
