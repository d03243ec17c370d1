package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bklieger-groq/voice-stockbot/internal/agents"
	"github.com/bklieger-groq/voice-stockbot/internal/models"
)

const (
	streamKey     = "reasoning:inbound"
	consumerGroup = "reasoning-group"
	eventPrefix   = "reasoning:events:"
)

// Server consumes turn requests from a Redis stream, runs the executor, and
// publishes each output event to the turn's event channel. Everything here is
// plumbing around the pipeline; the pipeline itself lives in agents.
type Server struct {
	rdb      *redis.Client
	executor *agents.Executor
	consumer string
}

func New(rdb *redis.Client, executor *agents.Executor) *Server {
	return &Server{
		rdb:      rdb,
		executor: executor,
		consumer: "reasoning-" + uuid.NewString()[:8],
	}
}

func (s *Server) EnsureConsumerGroup(ctx context.Context) error {
	err := s.rdb.XGroupCreateMkStream(ctx, streamKey, consumerGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// ConsumeLoop reads inbound turns until the context is cancelled. Each turn
// runs in its own goroutine so a slow turn never blocks other sessions.
func (s *Server) ConsumeLoop(ctx context.Context) {
	log.Printf("[server] consuming %s as %s", streamKey, s.consumer)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := s.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: s.consumer,
			Streams:  []string{streamKey, ">"},
			Count:    8,
			Block:    5 * time.Second,
		}).Result()

		if err == redis.Nil || (err != nil && ctx.Err() != nil) {
			continue
		}
		if err != nil {
			log.Printf("[server] error reading stream: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				go s.handleTurn(ctx, msg)
			}
		}
	}
}

func (s *Server) handleTurn(ctx context.Context, msg redis.XMessage) {
	defer s.rdb.XAck(ctx, streamKey, consumerGroup, msg.ID)

	turnJSON, ok := msg.Values["turn"].(string)
	if !ok {
		log.Printf("[server] message %s missing turn field", msg.ID)
		return
	}

	var req models.TurnRequest
	if err := json.Unmarshal([]byte(turnJSON), &req); err != nil {
		log.Printf("[server] failed to unmarshal turn %s: %v", msg.ID, err)
		return
	}

	log.Printf("[server] processing turn for task %s", req.TaskID)

	for _, event := range s.executor.Run(ctx, req) {
		s.publish(ctx, req.TaskID, event)
	}
}

func (s *Server) publish(ctx context.Context, taskID string, event models.AgentEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[server] failed to marshal event: %v", err)
		return
	}
	channel := eventPrefix + taskID
	if err := s.rdb.Publish(ctx, channel, string(data)).Err(); err != nil {
		log.Printf("[server] failed to publish event to %s: %v", channel, err)
	}
}

// Healthz reports readiness, including Redis connectivity.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.rdb.Ping(r.Context()).Err(); err != nil {
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
