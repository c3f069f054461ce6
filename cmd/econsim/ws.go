package main

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"git.gammaspectra.live/P2Pool/econsim/sim"
	"git.gammaspectra.live/P2Pool/econsim/utils"
	"github.com/gorilla/mux"
	"golang.org/x/exp/slices"
	"nhooyr.io/websocket"
)

type listener struct {
	ListenerId uint64
	Write      func(buf []byte)
	Context    context.Context
	Cancel     func()
}

var listenerLock sync.RWMutex
var listenerIdCounter atomic.Uint64
var listeners []*listener

type tickEvent struct {
	Type  string            `json:"type"`
	Model sim.ModelSnapshot `json:"model"`
}

func registerEventHandlers(serveMux *mux.Router) {
	serveMux.HandleFunc("/api/events", func(writer http.ResponseWriter, request *http.Request) {
		requestTime := time.Now()
		c, err := websocket.Accept(writer, request, nil)
		if err != nil {
			utils.Errorf("[WS] Accept failed: %s", err)
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
		listenerId := listenerIdCounter.Add(1)
		defer func() {
			listenerLock.Lock()
			defer listenerLock.Unlock()
			if i := slices.IndexFunc(listeners, func(listener *listener) bool {
				return listener.ListenerId == listenerId
			}); i != -1 {
				listeners = slices.Delete(listeners, i, i+1)
			}
			utils.Logf("[WS] Client %d detached after %.02f seconds", listenerId, time.Now().Sub(requestTime).Seconds())
		}()

		ctx, cancel := context.WithCancel(request.Context())
		defer cancel()

		var writeLock sync.Mutex
		l := &listener{
			ListenerId: listenerId,
			Context:    ctx,
			Cancel:     cancel,
			Write: func(buf []byte) {
				writeLock.Lock()
				defer writeLock.Unlock()

				writeCtx, writeCancel := context.WithTimeout(ctx, time.Second)
				defer writeCancel()
				if err := c.Write(writeCtx, websocket.MessageText, buf); err != nil {
					cancel()
				}
			},
		}

		func() {
			listenerLock.Lock()
			defer listenerLock.Unlock()
			listeners = append(listeners, l)
		}()

		utils.Logf("[WS] Client %d attached", listenerId)

		<-ctx.Done()
		_ = c.Close(websocket.StatusNormalClosure, "")
	})
}

// broadcastTick fans the per-tick model snapshot out to every attached
// listener. Slow clients are cut off by their own write timeout instead of
// stalling the simulation loop.
func broadcastTick(model sim.ModelSnapshot) {
	listenerLock.RLock()
	defer listenerLock.RUnlock()
	if len(listeners) == 0 {
		return
	}

	buf, err := utils.MarshalJSON(tickEvent{
		Type:  "tick",
		Model: model,
	})
	if err != nil {
		return
	}

	for _, l := range listeners {
		l.Write(buf)
	}
}
