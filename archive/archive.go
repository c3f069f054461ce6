package archive

import (
	"encoding/binary"
	"fmt"
	"time"

	"git.gammaspectra.live/P2Pool/econsim/sim"
	"git.gammaspectra.live/P2Pool/econsim/utils"
	bolt "go.etcd.io/bbolt"
)

var modelByTick = []byte("modelByTick")
var agentsByTick = []byte("agentsByTick")

// Archive persists the per-tick snapshots into a bbolt database keyed by
// tick, so reporting collaborators can query past runs.
type Archive struct {
	db *bolt.DB
}

func New(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: time.Second * 5})
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(modelByTick); err != nil {
			return err
		} else if _, err := tx.CreateBucketIfNotExists(agentsByTick); err != nil {
			return err
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func tickKey(tick uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], tick)
	return k[:]
}

// Collect implements sim.Collector. A failed write panics through the
// logger: silently dropping a tick would corrupt the archived sequence.
func (a *Archive) Collect(model sim.ModelSnapshot, agents []sim.AgentSnapshot) {
	if err := a.Store(model, agents); err != nil {
		utils.Panicf("[ARCHIVE] store tick %d: %s", model.Tick, err)
	}
}

func (a *Archive) Store(model sim.ModelSnapshot, agents []sim.AgentSnapshot) error {
	modelBuf, err := utils.MarshalJSON(model)
	if err != nil {
		return err
	}
	agentsBuf, err := utils.MarshalJSON(agents)
	if err != nil {
		return err
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(modelByTick).Put(tickKey(model.Tick), modelBuf); err != nil {
			return err
		}
		return tx.Bucket(agentsByTick).Put(tickKey(model.Tick), agentsBuf)
	})
}

func (a *Archive) Model(tick uint64) (model sim.ModelSnapshot, err error) {
	err = a.db.View(func(tx *bolt.Tx) error {
		buf := tx.Bucket(modelByTick).Get(tickKey(tick))
		if buf == nil {
			return fmt.Errorf("no model snapshot for tick %d", tick)
		}
		return utils.UnmarshalJSON(buf, &model)
	})
	return model, err
}

func (a *Archive) Agents(tick uint64) (agents []sim.AgentSnapshot, err error) {
	err = a.db.View(func(tx *bolt.Tx) error {
		buf := tx.Bucket(agentsByTick).Get(tickKey(tick))
		if buf == nil {
			return fmt.Errorf("no agent snapshots for tick %d", tick)
		}
		return utils.UnmarshalJSON(buf, &agents)
	})
	return agents, err
}

// ModelRange returns the archived model snapshots with from <= tick <= to,
// ascending.
func (a *Archive) ModelRange(from, to uint64) (models []sim.ModelSnapshot, err error) {
	err = a.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(modelByTick).Cursor()
		for k, v := cursor.Seek(tickKey(from)); k != nil && binary.BigEndian.Uint64(k) <= to; k, v = cursor.Next() {
			var model sim.ModelSnapshot
			if err := utils.UnmarshalJSON(v, &model); err != nil {
				return err
			}
			models = append(models, model)
		}
		return nil
	})
	return models, err
}

// Tip returns the highest archived tick.
func (a *Archive) Tip() (tick uint64, ok bool) {
	_ = a.db.View(func(tx *bolt.Tx) error {
		if k, _ := tx.Bucket(modelByTick).Cursor().Last(); k != nil {
			tick = binary.BigEndian.Uint64(k)
			ok = true
		}
		return nil
	})
	return tick, ok
}

func (a *Archive) Close() error {
	return a.db.Close()
}
