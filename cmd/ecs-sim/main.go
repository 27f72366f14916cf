package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/hearthglen/ecs"
)

const (
	worldWidth  = 1000
	worldHeight = 1000
)

func buildWorld(entityCount int) *ecs.World {
	w := ecs.NewWorld()
	for i := 0; i < entityCount; i++ {
		e := ecs.SpawnEntity(w)
		ecs.AddComponent(w, e, randomPosition(worldWidth, worldHeight))
		ecs.AddComponent(w, e, randomVelocity())
		ecs.AddComponent(w, e, Health{Current: 100, Max: 100})
		ecs.AddComponent(w, e, Tag{Name: fmt.Sprintf("entity-%d", i)})
	}
	return w
}

func buildScheduler() *ecs.Scheduler {
	sched := ecs.NewScheduler()
	if err := sched.AddSystem(&movementSystem{query: ecs.NewQuery[Position]()}); err != nil {
		log.Fatalf("add movementSystem: %v", err)
	}
	if err := sched.AddSystem(&damageDealerSystem{query: ecs.NewQuery[Health](), rate: 0.01}); err != nil {
		log.Fatalf("add damageDealerSystem: %v", err)
	}
	if err := sched.AddSystem(&damageApplierSystem{query: ecs.NewQuery[DamageEvent]()}); err != nil {
		log.Fatalf("add damageApplierSystem: %v", err)
	}
	if err := sched.AddSystem(&cleanupSystem{query: ecs.NewQuery[Dead]()}); err != nil {
		log.Fatalf("add cleanupSystem: %v", err)
	}
	return sched
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the simulation should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	seed := flag.Int64("seed", 1, "Random seed for entity placement and damage rolls.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	rand.Seed(*seed)

	log.Println("Starting ECS simulation stress test...")

	world := buildWorld(*entityCount)
	scheduler := buildScheduler()
	if err := scheduler.Build(); err != nil {
		log.Fatalf("scheduler build: %v", err)
	}

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     4,
		Systems:        scheduler.SystemCount(),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			if err := scheduler.Run(world); err != nil {
				log.Fatalf("scheduler run: %v", err)
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- ECS Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	stats := world.Stats()
	log.Printf("Final entity count: %d, component types: %d, ephemeral types: %d\n",
		stats.EntityCount, len(stats.ComponentCounts), len(stats.EphemeralCounts))
}
