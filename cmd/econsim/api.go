package main

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"git.gammaspectra.live/P2Pool/econsim/archive"
	"git.gammaspectra.live/P2Pool/econsim/sim"
	"git.gammaspectra.live/P2Pool/econsim/utils"
	"github.com/ake-persson/mapslice-json"
	"github.com/gorilla/mux"
	"golang.org/x/exp/slices"
)

// serverState is the narrow read-only view the reporting API serves from.
// The collector updates it once per tick.
type serverState struct {
	lock   sync.RWMutex
	agents []sim.AgentSnapshot
	recent *utils.CircularBuffer[sim.ModelSnapshot]
}

func newServerState(recentWindow int) *serverState {
	return &serverState{
		recent: utils.NewCircularBuffer[sim.ModelSnapshot](recentWindow),
	}
}

func (s *serverState) update(model sim.ModelSnapshot, agents []sim.AgentSnapshot) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.agents = agents
	s.recent.Push(model)
}

// snapshot returns the model at the ring's write position plus a copy of the
// agent slice.
func (s *serverState) snapshot() (sim.ModelSnapshot, []sim.AgentSnapshot) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	agents := make([]sim.AgentSnapshot, len(s.agents))
	copy(agents, s.agents)
	return s.recent.Current(), agents
}

func encodeJson(r *http.Request, d any) ([]byte, error) {
	if strings.Index(strings.ToLower(r.Header.Get("user-agent")), "mozilla") != -1 {
		return utils.MarshalJSONIndent(d, "    ")
	} else {
		return utils.MarshalJSON(d)
	}
}

func writeJson(writer http.ResponseWriter, request *http.Request, d any) {
	buf, err := encodeJson(request, d)
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(buf)
}

type minerEntry struct {
	HashRate       float64 `json:"hash_rate"`
	RewardBalance  float64 `json:"reward_balance"`
	Active         uint8   `json:"active"`
	BlocksFound    uint64  `json:"blocks_found"`
	ExpectedBlocks float64 `json:"expected_blocks"`
	// Luck is the Poisson probability of having found exactly this many
	// blocks at this miner's accumulated effort.
	Luck float64 `json:"luck"`
	// FoundProbability is the chance of at least one block at that effort.
	FoundProbability float64 `json:"found_probability"`
}

type historyResult struct {
	Models []sim.ModelSnapshot `json:"models"`
	// NextCursor is the from= value of the following page, present while the
	// requested range stops short of the archive tip.
	NextCursor string `json:"next_cursor,omitempty"`
}

var historyCache = utils.NewLRUCache[[2]uint64, []sim.ModelSnapshot](128)

func serveApi(addr string, state *serverState, arc *archive.Archive, cfg sim.Config) error {
	serveMux := mux.NewRouter()

	serveMux.HandleFunc("/api/model", func(writer http.ResponseWriter, request *http.Request) {
		model, _ := state.snapshot()
		writeJson(writer, request, model)
	})

	serveMux.HandleFunc("/api/config", func(writer http.ResponseWriter, request *http.Request) {
		writeJson(writer, request, cfg)
	})

	serveMux.HandleFunc("/api/miners", func(writer http.ResponseWriter, request *http.Request) {
		model, agents := state.snapshot()

		slices.SortFunc(agents, func(a, b sim.AgentSnapshot) bool {
			if a.RewardBalance != b.RewardBalance {
				return a.RewardBalance > b.RewardBalance
			}
			return a.MinerId < b.MinerId
		})

		miners := make(mapslice.MapSlice, 0, len(agents))
		for _, a := range agents {
			miners = append(miners, mapslice.MapItem{
				Key: strconv.FormatUint(a.MinerId, 10),
				Value: minerEntry{
					HashRate:         a.HashRate,
					RewardBalance:    a.RewardBalance,
					Active:           a.Active,
					BlocksFound:      a.BlocksFound,
					ExpectedBlocks:   a.ExpectedBlocks,
					Luck:             utils.ProbabilityNShares(a.BlocksFound, a.ExpectedBlocks*100),
					FoundProbability: utils.ProbabilityEffort(a.ExpectedBlocks * 100),
				},
			})
		}

		writeJson(writer, request, struct {
			Tick         uint64            `json:"tick"`
			ActiveMiners int               `json:"active_miners"`
			Miners       mapslice.MapSlice `json:"miners"`
		}{
			Tick: model.Tick,
			ActiveMiners: utils.SliceCount(agents, func(a sim.AgentSnapshot) bool {
				return a.Active != 0
			}),
			Miners: miners,
		})
	})

	serveMux.HandleFunc("/api/recent", func(writer http.ResponseWriter, request *http.Request) {
		window := state.recent.Slice()
		models := make([]sim.ModelSnapshot, 0, len(window))
		for _, m := range window {
			// skip slots the ring has not filled yet
			if m.TotalHashRate > 0 {
				models = append(models, m)
			}
		}
		slices.SortFunc(models, func(a, b sim.ModelSnapshot) bool {
			return a.Tick < b.Tick
		})
		writeJson(writer, request, models)
	})

	serveMux.HandleFunc("/api/history", func(writer http.ResponseWriter, request *http.Request) {
		if arc == nil {
			writer.WriteHeader(http.StatusNotFound)
			return
		}

		tip, ok := arc.Tip()
		if !ok {
			writeJson(writer, request, historyResult{Models: []sim.ModelSnapshot{}})
			return
		}

		query := request.URL.Query()
		from := uint64(0)
		if v := query.Get("from"); v != "" {
			from = utils.DecodeBinaryNumber(v)
		}
		to := tip
		if v := query.Get("to"); v != "" {
			to = utils.DecodeBinaryNumber(v)
		}
		if to > tip {
			to = tip
		}
		if from > to {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}

		key := [2]uint64{from, to}
		models, hit := historyCache.Get(key)
		if !hit {
			var err error
			if models, err = arc.ModelRange(from, to); err != nil {
				writer.WriteHeader(http.StatusInternalServerError)
				return
			}
			// only closed ranges are immutable while the run continues
			if to < tip {
				historyCache.Set(key, models)
			}
		}

		if query.Get("order") == "desc" {
			out := make([]sim.ModelSnapshot, len(models))
			copy(out, models)
			models = utils.ReverseSlice(out)
		}

		hits, misses := historyCache.Stats()
		utils.Debugf("[API] history cache: %d hits, %d misses", hits, misses)

		result := historyResult{Models: models}
		if to < tip {
			result.NextCursor = utils.EncodeBinaryNumber(to + 1)
		}

		writeJson(writer, request, result)
	})

	registerEventHandlers(serveMux)

	server := &http.Server{
		Addr:        addr,
		ReadTimeout: time.Second * 2,
		Handler:     serveMux,
	}
	return server.ListenAndServe()
}
