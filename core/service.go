package core

import (
	"context"
	"fmt"
	"log"
)

// Interface is implemented by every long-running component
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

// Registry starts services in registration order and stops them in reverse
type Registry struct {
	services []Interface
}

func NewRegistry() *Registry {
	return &Registry{
		services: make([]Interface, 0),
	}
}

func (sr *Registry) Register(service Interface) {
	sr.services = append(sr.services, service)
}

// StartAll starts all registered services. When one fails, the services
// already started are stopped again before the error is returned.
func (sr *Registry) StartAll(ctx context.Context) error {
	for i, service := range sr.services {
		if err := service.Start(ctx); err != nil {
			log.Printf("Registry: service %d failed to start: %v", i, err)
			for j := i - 1; j >= 0; j-- {
				sr.services[j].Stop()
			}
			return fmt.Errorf("start service %d: %w", i, err)
		}
	}
	return nil
}

// StopAll stops all registered services in reverse order
func (sr *Registry) StopAll() {
	for i := len(sr.services) - 1; i >= 0; i-- {
		sr.services[i].Stop()
	}
}
