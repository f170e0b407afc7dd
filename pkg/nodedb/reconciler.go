package nodedb

import (
	"log/slog"

	"github.com/meshdb/meshdb-go/pkg/log"
	"github.com/meshdb/meshdb-go/pkg/mesh"
	"github.com/meshdb/meshdb-go/pkg/metrics"
	"github.com/meshdb/meshdb-go/pkg/persistence"
)

// Saver writes the device state to durable storage.
// *persistence.Manager implements it.
type Saver interface {
	Save() error
}

// Reconciler folds inbound packets into the node table.
type Reconciler struct {
	state    *persistence.DeviceState
	registry *Registry
	saver    Saver

	handlers []EventHandler

	logger   *slog.Logger
	events   log.Logger
	recorder metrics.Recorder
}

// NewReconciler creates a reconciler that updates registry and the text
// message slot of state, saving through saver when a node's user changes.
// A nil saver disables saving.
func NewReconciler(state *persistence.DeviceState, registry *Registry, saver Saver) *Reconciler {
	return &Reconciler{
		state:    state,
		registry: registry,
		saver:    saver,
		logger:   slog.New(slog.DiscardHandler),
		events:   log.NoopLogger{},
		recorder: metrics.NoopRecorder{},
	}
}

// SetLogger sets the operational logger. Nil disables logging.
func (r *Reconciler) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r.logger = logger
}

// SetEventLogger sets the event trace logger.
func (r *Reconciler) SetEventLogger(l log.Logger) {
	r.events = log.OrNoop(l)
}

// SetRecorder sets the metrics recorder. Nil disables metrics.
func (r *Reconciler) SetRecorder(rec metrics.Recorder) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	r.recorder = rec
}

// OnEvent registers an event handler.
func (r *Reconciler) OnEvent(handler EventHandler) {
	r.handlers = append(r.handlers, handler)
}

// HandlePacket applies a packet to the sender's record.
//
// Packets without a payload are ignored. Otherwise the sender's record is
// created if needed and its LastSeen set from RxTime when that is non-zero,
// without any ordering check. Then, by payload variant:
//   - position: replaces the stored position
//   - clear-text data: replaces the last received text message; other data
//     types are ignored
//   - user: replaces the stored user and saves the state if it differed
func (r *Reconciler) HandlePacket(p *mesh.MeshPacket) {
	if p == nil || !p.HasPayload() {
		if p != nil {
			r.logger.Debug("Ignoring packet without payload", "from", p.From, "id", p.ID)
			r.logPacket(p, true)
		}
		return
	}

	sub := p.Payload
	variant := sub.Variant()
	r.recorder.IncPacket(variant.String())
	r.logPacket(p, false)

	node, created := r.registry.FindOrCreate(p.From)
	if created {
		r.logger.Info("Discovered node", "node", p.From, "count", r.registry.Count())
		r.recorder.IncNodeCreated()
		r.logNode(node, log.NodeCreated)
		r.emit(Event{Type: EventRegistryChanged, Node: node})
	}

	if p.RxTime != 0 {
		node.LastSeen = p.RxTime
	}

	switch variant {
	case mesh.VariantPosition:
		node.Position = *sub.Position
		node.HasPosition = true
		r.logNode(node, log.NodePositionUpdated)
		r.emit(Event{Type: EventNodeUpdated, Node: node})

	case mesh.VariantData:
		if sub.Data.Type != mesh.DataTypeClearText {
			r.logger.Debug("Ignoring data packet", "from", p.From, "type", sub.Data.Type)
			return
		}
		r.state.RxTextMessage = p.Clone()
		r.state.HasRxTextMessage = true
		r.logger.Debug("Received text message", "from", p.From, "len", len(sub.Data.Payload))
		r.emit(Event{Type: EventTextMessage, Node: node, Packet: &r.state.RxTextMessage})

	case mesh.VariantUser:
		changed := !node.User.Equal(*sub.User)
		node.User = *sub.User
		node.HasUser = true

		if !changed {
			r.logNode(node, log.NodeUserRefreshed)
			return
		}
		r.logger.Info("Node user changed", "node", node.Num, "id", node.User.ID, "name", node.User.LongName)
		r.logNode(node, log.NodeUserChanged)
		r.emit(Event{Type: EventNodeUpdated, Node: node})
		r.save()
	}
}

func (r *Reconciler) save() {
	if r.saver == nil {
		return
	}
	if err := r.saver.Save(); err != nil {
		// The in-memory state stays authoritative; the next user change retries.
		r.logger.Warn("Saving node database failed", "error", err)
		r.events.Log(log.Event{
			Layer:    log.LayerReconciler,
			Category: log.CategoryError,
			Error: &log.ErrorEventData{
				Layer:   log.LayerPersistence,
				Message: err.Error(),
				Context: "save after user change",
			},
		})
	}
}

func (r *Reconciler) emit(e Event) {
	for _, h := range r.handlers {
		h(e)
	}
}

func (r *Reconciler) logPacket(p *mesh.MeshPacket, ignored bool) {
	pe := &log.PacketEvent{
		From:      p.From,
		PacketID:  p.ID,
		RxTime:    p.RxTime,
		Ignored:   ignored,
		Broadcast: p.IsBroadcast(),
	}
	if p.Payload != nil {
		pe.Variant = p.Payload.Variant()
		if p.Payload.Data != nil {
			dt := p.Payload.Data.Type
			pe.DataType = &dt
		}
	}
	r.events.Log(log.Event{
		Layer:    log.LayerReconciler,
		Category: log.CategoryPacket,
		NodeNum:  p.From,
		Packet:   pe,
	})
}

func (r *Reconciler) logNode(node *mesh.NodeInfo, change log.NodeChange) {
	ne := &log.NodeEvent{
		Change: change,
		Count:  r.registry.Count(),
	}
	if node.HasUser {
		ne.UserID = node.User.ID
		ne.LongName = node.User.LongName
	}
	r.events.Log(log.Event{
		Layer:    log.LayerRegistry,
		Category: log.CategoryNode,
		NodeNum:  node.Num,
		Node:     ne,
	})
}
