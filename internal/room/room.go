package room

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/masc-mcp/masc-mcp/internal/mention"
	"github.com/masc-mcp/masc-mcp/internal/storage"
)

// ProtocolVersion is reported by Status(). It carries the same value as
// mcp.ProtocolVersion, the MCP dispatcher's initialize default, but is a
// separate constant.
const ProtocolVersion = "2025-11-25"

// Room wraps a storage.Backend with the typed agent/lock/message/task/pause
// operations described in spec.md §4.2. A Room owns agents, locks,
// messages, tasks, and pauses; everything else (sessions, credentials,
// handovers, planning artifacts) lives in its own component and its own
// storage key namespace.
type Room struct {
	name    string
	backend storage.Backend
	logger  *zap.Logger

	// seqMu serializes message sequence allocation. The persisted counter
	// is written with a plain storage Set, so allocation is linearizable
	// within this process only; separate processes sharing the counter key
	// are not coordinated.
	seqMu sync.Mutex

	// lockLocalMu is a fast-path local guard in front of the storage
	// SetIfNotExists call that actually decides lock ownership; it does
	// not replace the storage guarantee, it just avoids doing wasted I/O
	// under contention from the same process.
	lockLocalMu sync.Mutex
}

// New constructs a Room backed by backend, namespaced under name.
func New(name string, backend storage.Backend, logger *zap.Logger) *Room {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Room{name: name, backend: backend, logger: logger}
}

func (r *Room) key(parts ...string) string {
	return strings.Join(append([]string{"rooms", r.name}, parts...), ":")
}

func validateAgentName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAgentName)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: path separator", ErrInvalidAgentName)
	}
	if strings.HasPrefix(name, ":") {
		return fmt.Errorf("%w: leading colon", ErrInvalidAgentName)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: .. segment", ErrInvalidAgentName)
		}
	}
	return nil
}

// RegisterAgent validates name, creates the presence record if absent, and
// refreshes last_seen if the agent is already registered (idempotent on
// same name).
func (r *Room) RegisterAgent(name string, capabilities []string) (Agent, error) {
	if err := validateAgentName(name); err != nil {
		return Agent{}, err
	}
	now := time.Now().UTC()
	existing, err := r.GetAgent(name)
	if err == nil {
		existing.LastSeen = now
		existing.Status = AgentActive
		if err := r.putAgent(existing); err != nil {
			return Agent{}, err
		}
		return existing, nil
	}
	agent := Agent{
		Name:         name,
		Status:       AgentActive,
		Capabilities: capabilities,
		RegisteredAt: now,
		LastSeen:     now,
	}
	if err := r.putAgent(agent); err != nil {
		return Agent{}, err
	}
	r.logger.Info("agent registered", zap.String("room", r.name), zap.String("agent", name))
	return agent, nil
}

func (r *Room) putAgent(a Agent) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return r.backend.Set(r.key("agents", a.Name), data)
}

// GetAgent returns the named agent's presence record.
func (r *Room) GetAgent(name string) (Agent, error) {
	data, err := r.backend.Get(r.key("agents", name))
	if err != nil {
		if err == storage.ErrNotFound {
			return Agent{}, ErrAgentNotFound
		}
		return Agent{}, err
	}
	var a Agent
	if err := json.Unmarshal(data, &a); err != nil {
		return Agent{}, err
	}
	return a, nil
}

// Heartbeat refreshes last_seen for an already-registered agent.
func (r *Room) Heartbeat(name string) error {
	a, err := r.GetAgent(name)
	if err != nil {
		return err
	}
	a.LastSeen = time.Now().UTC()
	a.Status = AgentActive
	return r.putAgent(a)
}

// RemoveAgent deletes an agent's presence record.
func (r *Room) RemoveAgent(name string) error {
	if err := r.backend.Delete(r.key("agents", name)); err != nil {
		return err
	}
	r.logger.Info("agent removed", zap.String("room", r.name), zap.String("agent", name))
	return nil
}

// ListAgents enumerates all registered agent names.
func (r *Room) ListAgents() ([]string, error) {
	keys, err := r.backend.List(r.key("agents") + ":")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, r.key("agents")+":"))
	}
	return names, nil
}

// AcquireLock attempts an atomic create-if-absent on the lock resource. It
// returns (lock, true) on success, or (zero, false) if the resource is
// already held by a different owner. A re-acquire by the same owner is a
// no-op that returns the existing lock.
func (r *Room) AcquireLock(resource, owner string) (Lock, bool, error) {
	r.lockLocalMu.Lock()
	defer r.lockLocalMu.Unlock()

	existing, err := r.getLock(resource)
	if err == nil {
		if existing.Owner == owner {
			return existing, true, nil
		}
		return Lock{}, false, nil
	}
	if err != ErrNotFoundLock {
		return Lock{}, false, err
	}

	lock := Lock{Resource: resource, Owner: owner, AcquiredAt: time.Now().UTC()}
	data, merr := json.Marshal(lock)
	if merr != nil {
		return Lock{}, false, merr
	}
	created, serr := r.backend.SetIfNotExists(r.key("locks", resource), data)
	if serr != nil {
		if serr == storage.ErrAlreadyExists {
			// Lost the race to a concurrent acquirer; re-read to report.
			cur, gerr := r.getLock(resource)
			if gerr != nil {
				return Lock{}, false, gerr
			}
			if cur.Owner == owner {
				return cur, true, nil
			}
			return Lock{}, false, nil
		}
		return Lock{}, false, serr
	}
	if !created {
		return Lock{}, false, nil
	}
	r.logger.Info("lock acquired", zap.String("room", r.name), zap.String("resource", resource), zap.String("owner", owner))
	return lock, true, nil
}

// ErrNotFoundLock is an internal sentinel distinguishing "no lock record"
// from other storage errors inside getLock.
var ErrNotFoundLock = fmt.Errorf("room: no lock record")

func (r *Room) getLock(resource string) (Lock, error) {
	data, err := r.backend.Get(r.key("locks", resource))
	if err != nil {
		if err == storage.ErrNotFound {
			return Lock{}, ErrNotFoundLock
		}
		return Lock{}, err
	}
	var l Lock
	if err := json.Unmarshal(data, &l); err != nil {
		return Lock{}, err
	}
	return l, nil
}

// ReleaseLock is idempotent; it is a no-op if resource is not held by
// owner.
func (r *Room) ReleaseLock(resource, owner string) error {
	r.lockLocalMu.Lock()
	defer r.lockLocalMu.Unlock()

	existing, err := r.getLock(resource)
	if err != nil {
		if err == ErrNotFoundLock {
			return nil
		}
		return err
	}
	if existing.Owner != owner {
		return nil
	}
	if err := r.backend.Delete(r.key("locks", resource)); err != nil {
		return err
	}
	r.logger.Info("lock released", zap.String("room", r.name), zap.String("resource", resource), zap.String("owner", owner))
	return nil
}

// ListLocks enumerates currently held locks.
func (r *Room) ListLocks() ([]Lock, error) {
	keys, err := r.backend.List(r.key("locks") + ":")
	if err != nil {
		return nil, err
	}
	out := make([]Lock, 0, len(keys))
	for _, k := range keys {
		data, err := r.backend.Get(k)
		if err != nil {
			continue
		}
		var l Lock
		if err := json.Unmarshal(data, &l); err != nil {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// nextSeq allocates the next monotone, dense message sequence number. The
// in-process mutex makes allocation linearizable for this single server
// process; the persisted counter is read-modify-written under that lock
// via storage.Set and is bumped only after the message record itself is
// written. A crash between those two writes leaves the counter behind, so
// allocation steps past any sequence number whose message record already
// exists and never reuses one that is visible to a reader.
func (r *Room) nextSeq() (int64, error) {
	seq := int64(1)
	data, err := r.backend.Get(r.key("messages", "next_seq"))
	if err != nil && err != storage.ErrNotFound {
		return 0, err
	}
	if err == nil {
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("room: corrupt next_seq counter: %w", err)
		}
		seq = n + 1
	}
	for {
		taken, err := r.backend.Exists(r.key("messages", strconv.FormatInt(seq, 10)))
		if err != nil {
			return 0, err
		}
		if !taken {
			return seq, nil
		}
		seq++
	}
}

func (r *Room) commitSeq(seq int64) error {
	return r.backend.Set(r.key("messages", "next_seq"), []byte(strconv.FormatInt(seq, 10)))
}

// Broadcast allocates the next seq, extracts the mention, persists the
// message, and returns the stored record.
func (r *Room) Broadcast(fromAgent, content string) (Message, error) {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	seq, err := r.nextSeq()
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		Seq:       seq,
		FromAgent: fromAgent,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if name := mention.Extract(content); name != "" {
		msg.Mention = &name
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return Message{}, err
	}
	if err := r.backend.Set(r.key("messages", strconv.FormatInt(seq, 10)), data); err != nil {
		return Message{}, err
	}
	if err := r.commitSeq(seq); err != nil {
		return Message{}, err
	}
	r.logger.Info("message broadcast", zap.String("room", r.name), zap.Int64("seq", seq), zap.String("from", fromAgent))
	return msg, nil
}

// GetMessage returns the message at seq.
func (r *Room) GetMessage(seq int64) (Message, error) {
	data, err := r.backend.Get(r.key("messages", strconv.FormatInt(seq, 10)))
	if err != nil {
		if err == storage.ErrNotFound {
			return Message{}, ErrMessageNotFound
		}
		return Message{}, err
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// ListMessages returns messages with seq > sinceSeq, in seq order, up to
// limit (0 means unlimited).
func (r *Room) ListMessages(sinceSeq int64, limit int) ([]Message, error) {
	keys, err := r.backend.List(r.key("messages") + ":")
	if err != nil {
		return nil, err
	}
	var out []Message
	for _, k := range keys {
		if strings.HasSuffix(k, ":next_seq") {
			continue
		}
		data, err := r.backend.Get(k)
		if err != nil {
			continue
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		if m.Seq > sinceSeq {
			out = append(out, m)
		}
	}
	sortMessages(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortMessages(msgs []Message) {
	for i := 1; i < len(msgs); i++ {
		j := i
		for j > 0 && msgs[j-1].Seq > msgs[j].Seq {
			msgs[j-1], msgs[j] = msgs[j], msgs[j-1]
			j--
		}
	}
}

// ReadState returns a point-in-time snapshot of the room.
func (r *Room) ReadState() (State, error) {
	agents, err := r.ListAgents()
	if err != nil {
		return State{}, err
	}
	msgKeys, err := r.backend.List(r.key("messages") + ":")
	if err != nil {
		return State{}, err
	}
	msgCount := 0
	for _, k := range msgKeys {
		if !strings.HasSuffix(k, ":next_seq") {
			msgCount++
		}
	}
	taskKeys, err := r.backend.List(r.key("tasks") + ":")
	if err != nil {
		return State{}, err
	}
	locks, err := r.ListLocks()
	if err != nil {
		return State{}, err
	}
	p, err := r.GetPause()
	if err != nil {
		return State{}, err
	}
	return State{
		ActiveAgents: agents,
		Paused:       p.Paused,
		MessageCount: msgCount,
		TaskCount:    len(taskKeys),
		LockCount:    len(locks),
	}, nil
}

// Pause sets the pause flag for the room's default scope.
func (r *Room) Pause(actor, reason string) (Pause, error) {
	current, err := r.GetPause()
	if err != nil {
		return Pause{}, err
	}
	// Pausing an already-paused room is a no-op that returns the existing
	// record unchanged, not an error.
	if current.Paused {
		return current, nil
	}
	now := time.Now().UTC()
	p := Pause{Paused: true, Reason: reason, Actor: actor, Since: &now}
	if err := r.putPause(p); err != nil {
		return Pause{}, err
	}
	r.logger.Info("room paused", zap.String("room", r.name), zap.String("actor", actor), zap.String("reason", reason))
	return p, nil
}

// Resume clears the pause flag. A no-op if not currently paused.
func (r *Room) Resume(actor string) (Pause, error) {
	current, err := r.GetPause()
	if err != nil {
		return Pause{}, err
	}
	if !current.Paused {
		return current, nil
	}
	p := Pause{Paused: false}
	if err := r.putPause(p); err != nil {
		return Pause{}, err
	}
	r.logger.Info("room resumed", zap.String("room", r.name), zap.String("actor", actor))
	return p, nil
}

func (r *Room) putPause(p Pause) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.backend.Set(r.key("pauses", "default"), data)
}

// GetPause returns the current pause record (unpaused if none persisted).
func (r *Room) GetPause() (Pause, error) {
	data, err := r.backend.Get(r.key("pauses", "default"))
	if err != nil {
		if err == storage.ErrNotFound {
			return Pause{Paused: false}, nil
		}
		return Pause{}, err
	}
	var p Pause
	if err := json.Unmarshal(data, &p); err != nil {
		return Pause{}, err
	}
	return p, nil
}

// Status reports the protocol version and coarse counters.
func (r *Room) Status() (Status, error) {
	st, err := r.ReadState()
	if err != nil {
		return Status{}, err
	}
	return Status{
		ProtocolVersion: ProtocolVersion,
		AgentCount:      len(st.ActiveAgents),
		MessageCount:    st.MessageCount,
		TaskCount:       st.TaskCount,
		Paused:          st.Paused,
	}, nil
}

// HealthCheck aggregates the backend's health.
func (r *Room) HealthCheck() storage.HealthStatus {
	return r.backend.HealthCheck()
}
