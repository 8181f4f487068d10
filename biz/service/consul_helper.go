package service

import (
	"fmt"
	"time"

	"github.com/hashicorp/consul/api"
)

// ConsulHelper wraps consul registration and distributed locking.
// The consul agent must be reachable before use.

type ConsulHelper struct {
	client *api.Client
}

// NewConsulHelper creates a consul client for a single agent address.
func NewConsulHelper(addr string) (*ConsulHelper, error) {
	cfg := api.DefaultConfig()
	cfg.Address = addr
	cli, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ConsulHelper{client: cli}, nil
}

// NewConsulHelperWithAddrs tries each address until one answers.
func NewConsulHelperWithAddrs(addrs []string) (*ConsulHelper, error) {
	var lastErr error
	for _, addr := range addrs {
		cfg := api.DefaultConfig()
		cfg.Address = addr
		cli, err := api.NewClient(cfg)
		if err == nil {
			_, errPing := cli.Agent().Self()
			if errPing == nil {
				return &ConsulHelper{client: cli}, nil
			}
			lastErr = errPing
		} else {
			lastErr = err
		}
	}
	return nil, fmt.Errorf("all consul addresses failed: %v", lastErr)
}

// RegisterService registers this trading node with a TCP health check on its
// listen port.
func (c *ConsulHelper) RegisterService(nodeID, name, host string, port int) error {
	reg := &api.AgentServiceRegistration{
		ID:      nodeID,
		Name:    name,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			TCP:      fmt.Sprintf("%s:%d", host, port),
			Interval: "10s",
			Timeout:  "2s",
		},
	}
	return c.client.Agent().ServiceRegister(reg)
}

// DeregisterService removes this node's registration on shutdown.
func (c *ConsulHelper) DeregisterService(nodeID string) error {
	return c.client.Agent().ServiceDeregister(nodeID)
}

// AcquireLock grabs the distributed lock for key, returning nil when another
// node already holds it.
func (c *ConsulHelper) AcquireLock(key string) (*api.Lock, error) {
	lock, err := c.client.LockOpts(&api.LockOptions{
		Key:          key,
		LockTryOnce:  true,
		LockWaitTime: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	stopCh := make(chan struct{})
	leaderCh, err := lock.Lock(stopCh)
	if err != nil || leaderCh == nil {
		return nil, nil
	}
	return lock, nil
}

// Client returns the underlying consul client.
func (c *ConsulHelper) Client() *api.Client {
	return c.client
}
