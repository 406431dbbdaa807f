// Package web serves the game over WebSocket and reports the server status over HTTP.
package web

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/sauerbraten/croupier/pkg/bans"
	"github.com/sauerbraten/croupier/pkg/conn"
	"github.com/sauerbraten/croupier/pkg/server"
)

type Status struct {
	Mode    string    `json:"mode"`
	Game    string    `json:"game,omitempty"`
	Clients int       `json:"clients"`
	UpSince time.Time `json:"up_since"`
}

type Handler struct {
	acceptor server.Acceptor
	bans     *bans.BanManager // may be nil
	status   func() Status
	upgrader websocket.Upgrader
}

func New(a server.Acceptor, bm *bans.BanManager, status func() Status) *Handler {
	return &Handler{
		acceptor: a,
		bans:     bm,
		status:   status,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// clients are terminals and scripts as much as browsers
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()
	router.GET("/ws", h.serveWS)
	router.GET("/status", h.serveStatus)
	return router
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.bans != nil {
		if ban, banned := h.bans.GetBan(remoteIP(r)); banned {
			log.Printf("rejected %s: %v", r.RemoteAddr, ban)
			http.Error(w, "banned: "+ban.Reason, http.StatusForbidden)
			return
		}
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade for %s failed: %v", r.RemoteAddr, err)
		return
	}

	h.acceptor.Accept(conn.NewWebSocket(ws))
}

func (h *Handler) serveStatus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.status()); err != nil {
		log.Println("writing status:", err)
	}
}

func remoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}
