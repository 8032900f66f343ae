// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names a child supervisor of the root.
type Layer string

const (
	LayerData      Layer = "data-layer"
	LayerMessaging Layer = "messaging-layer"
	LayerAPI       Layer = "api-layer"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for a service to stop.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// ServiceStatus is one supervised service as reported by the readiness probe.
type ServiceStatus struct {
	Name      string `json:"name"`
	Layer     Layer  `json:"layer"`
	Failures  int    `json:"failures"`
	LastError string `json:"last_error,omitempty"`
}

// SupervisorTree is the root supervisor plus one child per Layer. It also
// counts terminations and panics per service from suture's event stream.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	config TreeConfig

	mu       sync.Mutex
	services []*ServiceStatus
	byName   map[string]*ServiceStatus
}

// NewSupervisorTree builds the tree. Zero config fields take their defaults
// and a nil logger falls back to slog.Default.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	defaults := DefaultTreeConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = defaults.FailureDecay
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = defaults.FailureBackoff
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	t := &SupervisorTree{
		layers: make(map[Layer]*suture.Supervisor, 3),
		config: config,
		byName: make(map[string]*ServiceStatus),
	}

	// MustHook has a pointer receiver.
	logHook := (&sutureslog.Handler{Logger: logger}).MustHook()

	// Children inherit the root's EventHook once added.
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}
	rootSpec := childSpec
	rootSpec.EventHook = func(e suture.Event) {
		t.observe(e)
		logHook(e)
	}

	t.root = suture.New("arthistory", rootSpec)
	for _, layer := range []Layer{LayerData, LayerMessaging, LayerAPI} {
		sup := suture.New(string(layer), childSpec)
		t.layers[layer] = sup
		t.root.Add(sup)
	}
	return t, nil
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// Add puts svc under layer. Services are tracked by their String() name.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	sup, ok := t.layers[layer]
	if !ok {
		panic(fmt.Sprintf("supervisor: unknown layer %q", layer))
	}

	name := fmt.Sprintf("%v", svc)
	if s, ok := svc.(fmt.Stringer); ok {
		name = s.String()
	}
	t.mu.Lock()
	if _, dup := t.byName[name]; !dup {
		st := &ServiceStatus{Name: name, Layer: layer}
		t.services = append(t.services, st)
		t.byName[name] = st
	}
	t.mu.Unlock()

	return sup.Add(svc)
}

// AddDataService adds a service to the data layer (store GC, checkpoints).
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerData, svc)
}

// AddMessagingService adds a service to the messaging layer.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerMessaging, svc)
}

// AddAPIService adds a service to the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.Add(LayerAPI, svc)
}

// Services returns a snapshot of every tracked service in the order added.
func (t *SupervisorTree) Services() []ServiceStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ServiceStatus, len(t.services))
	for i, s := range t.services {
		out[i] = *s
	}
	return out
}

func (t *SupervisorTree) observe(e suture.Event) {
	var name, reason string
	switch ev := e.(type) {
	case suture.EventServiceTerminate:
		name, reason = ev.ServiceName, fmt.Sprint(ev.Err)
	case suture.EventServicePanic:
		name, reason = ev.ServiceName, "panic: "+ev.PanicMsg
	default:
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.byName[name]; ok {
		st.Failures++
		st.LastError = reason
	}
}

// Serve runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The returned channel receives
// the tree's exit error exactly once.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that did not stop within
// ShutdownTimeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
