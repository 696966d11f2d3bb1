// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// LikeOutcomes counts like/unlike attempts by outcome.
	LikeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nano_social_like_outcomes_total",
		Help: "Like and unlike attempts by outcome",
	}, []string{"outcome"})

	// FollowOutcomes counts follow/unfollow attempts by outcome.
	FollowOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nano_social_follow_outcomes_total",
		Help: "Follow and unfollow attempts by outcome",
	}, []string{"outcome"})

	TagReconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nano_social_tag_reconciliations_total",
		Help: "Post saves that rewrote the tag set",
	})

	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nano_social_notifications_created_total",
		Help: "Notifications written",
	})

	NotificationsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nano_social_notifications_pruned_total",
		Help: "Read notifications removed by retention pruning",
	})
)

// NewServer returns an HTTP server exposing /metrics on port
func NewServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve runs srv until it is shut down
func Serve(srv *http.Server) {
	log.Info().Str("addr", srv.Addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
