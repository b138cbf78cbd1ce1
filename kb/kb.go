package kb

import (
	"fmt"
	"slices"
	"sync"

	"github.com/signalsfoundry/search-planner/model"
)

// EventType indicates what kind of change happened in the registry.
type EventType int

const (
	EventVehicleAdded EventType = iota
	EventVehicleRemoved
	EventPlanStored
)

// Event is emitted to subscribers when something interesting happens.
type Event struct {
	Type    EventType
	Vehicle model.Vehicle
	// PlanID is set for EventPlanStored.
	PlanID string
}

// FleetRegistry is an in-memory, thread-safe store for the vehicles of a
// search and the plans generated for them. It owns swarm slot allocation:
// no two registered vehicles share a SwarmIndex.
type FleetRegistry struct {
	mu sync.RWMutex

	vehicles map[string]*model.Vehicle
	slots    map[int]string // swarm index -> vehicle ID
	plans    map[string]*model.Plan

	subs []*subscription
}

// NewFleetRegistry constructs an empty registry.
func NewFleetRegistry() *FleetRegistry {
	return &FleetRegistry{
		vehicles: make(map[string]*model.Vehicle),
		slots:    make(map[int]string),
		plans:    make(map[string]*model.Plan),
	}
}

// AddVehicle registers v. A negative SwarmIndex is replaced by the lowest
// free slot; an explicit slot that is already taken is an error. The
// registered copy is returned.
func (r *FleetRegistry) AddVehicle(v model.Vehicle) (model.Vehicle, error) {
	if v.ID == "" {
		return model.Vehicle{}, fmt.Errorf("vehicle ID is empty")
	}

	r.mu.Lock()
	if _, exists := r.vehicles[v.ID]; exists {
		r.mu.Unlock()
		return model.Vehicle{}, fmt.Errorf("vehicle with ID %q already exists", v.ID)
	}
	if v.SwarmIndex < 0 {
		v.SwarmIndex = r.freeSlotLocked()
	} else if owner, taken := r.slots[v.SwarmIndex]; taken {
		r.mu.Unlock()
		return model.Vehicle{}, fmt.Errorf("swarm index %d already assigned to vehicle %q", v.SwarmIndex, owner)
	}

	stored := v
	r.vehicles[v.ID] = &stored
	r.slots[v.SwarmIndex] = v.ID
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	notify(subs, Event{Type: EventVehicleAdded, Vehicle: stored})
	return stored, nil
}

func (r *FleetRegistry) freeSlotLocked() int {
	for i := 0; ; i++ {
		if _, taken := r.slots[i]; !taken {
			return i
		}
	}
}

// RemoveVehicle unregisters a vehicle, freeing its swarm slot and dropping
// its plan.
func (r *FleetRegistry) RemoveVehicle(id string) error {
	r.mu.Lock()
	v, ok := r.vehicles[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("vehicle with ID %q not found", id)
	}
	delete(r.vehicles, id)
	delete(r.slots, v.SwarmIndex)
	delete(r.plans, id)
	event := Event{Type: EventVehicleRemoved, Vehicle: *v}
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	notify(subs, event)
	return nil
}

// GetVehicle returns the vehicle with the given ID.
func (r *FleetRegistry) GetVehicle(id string) (model.Vehicle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return model.Vehicle{}, false
	}
	return *v, true
}

// ListVehicles returns a snapshot of all vehicles ordered by swarm index.
func (r *FleetRegistry) ListVehicles() []model.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]model.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		res = append(res, *v)
	}
	slices.SortFunc(res, func(a, b model.Vehicle) int { return a.SwarmIndex - b.SwarmIndex })
	return res
}

// StorePlan records the latest plan for its vehicle and notifies
// subscribers. The vehicle must be registered.
func (r *FleetRegistry) StorePlan(p *model.Plan) error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}
	r.mu.Lock()
	v, ok := r.vehicles[p.VehicleID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("vehicle with ID %q not found for plan", p.VehicleID)
	}
	r.plans[p.VehicleID] = p
	event := Event{Type: EventPlanStored, Vehicle: *v, PlanID: p.ID}
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	notify(subs, event)
	return nil
}

// GetPlan returns the latest plan stored for a vehicle, or nil.
func (r *FleetRegistry) GetPlan(vehicleID string) *model.Plan {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plans[vehicleID]
}

// Subscribe registers a callback for registry events. It returns an
// unsubscribe function.
func (r *FleetRegistry) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := &subscription{fn: fn}
	r.subs = append(r.subs, sub)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if i := slices.Index(r.subs, sub); i >= 0 {
			r.subs = slices.Delete(r.subs, i, i+1)
		}
	}
}

type subscription struct {
	fn func(Event)
}

// Subscribers are notified outside the lock to avoid deadlocks.
func notify(subs []*subscription, e Event) {
	for _, sub := range subs {
		sub.fn(e)
	}
}
