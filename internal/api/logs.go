package api

import (
	"net/http"
	"strconv"

	"grimm.is/netdevd/internal/logging"
)

const defaultLogLimit = 100

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteErrorCtx(w, r, http.StatusBadRequest, "invalid limit %q", v)
			return
		}
		limit = n
	}
	source := r.URL.Query().Get("source")

	WriteJSON(w, http.StatusOK, logging.Recent().Last(limit, source))
}
