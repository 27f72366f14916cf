package main

import (
	"math/rand"
	"reflect"

	"github.com/hearthglen/ecs"
)

// movementSystem advances every Position by its Velocity scaled by a
// fixed per-tick step; it never reads wall-clock delta so repeated runs
// are comparable across machines.
type movementSystem struct {
	query ecs.Query[Position]
}

func (s *movementSystem) Run(w *ecs.World) {
	for e, pos := range s.query.Iter(w) {
		vel, ok := ecs.GetComponent[Velocity](w, e)
		if !ok {
			continue
		}
		pos.X += vel.DX * 0.05
		pos.Y += vel.DY * 0.05
		ecs.ReplaceComponent(w, e, pos)
	}
}

// damageDealerSystem picks a random fraction of Health-bearing entities
// each tick and deals them an ephemeral DamageEvent.
type damageDealerSystem struct {
	query ecs.Query[Health]
	rate  float64
}

func (s *damageDealerSystem) Run(w *ecs.World) {
	for e := range s.query.Iter(w) {
		if rand.Float64() > s.rate {
			continue
		}
		ecs.AddEphemeralComponent(w, e, DamageEvent{Amount: rand.Intn(5) + 1})
	}
}

// damageApplierSystem depends on damageDealerSystem so it observes this
// tick's ephemeral DamageEvent writes (the scheduler flushes between
// systems within a phase). Entities whose health drops to zero are
// tagged Dead for cleanupSystem to despawn.
type damageApplierSystem struct {
	query ecs.Query[DamageEvent]
}

func (s *damageApplierSystem) Dependencies() []reflect.Type {
	return []reflect.Type{ecs.SystemType[*damageDealerSystem]()}
}

func (s *damageApplierSystem) Run(w *ecs.World) {
	for e, dmg := range s.query.IterEphemeral(w) {
		health, ok := ecs.GetComponent[Health](w, e)
		if !ok {
			continue
		}
		health.Current -= dmg.Amount
		if health.Current <= 0 {
			health.Current = 0
			ecs.AddComponent(w, e, Dead{})
		}
		ecs.ReplaceComponent(w, e, health)
	}
}

// cleanupSystem despawns every entity tagged Dead, depending on
// damageApplierSystem so a kill lands the same tick it occurs.
type cleanupSystem struct {
	query ecs.Query[Dead]
}

func (s *cleanupSystem) Dependencies() []reflect.Type {
	return []reflect.Type{ecs.SystemType[*damageApplierSystem]()}
}

func (s *cleanupSystem) Run(w *ecs.World) {
	for e := range s.query.Iter(w) {
		ecs.DespawnEntity(w, e)
	}
}
