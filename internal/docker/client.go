package docker

import (
	"context"
	"fmt"

	dockerclient "github.com/moby/moby/client"
)

// API is the part of the Docker Engine client used for pruning.
type API interface {
	ContainerPrune(ctx context.Context, opts dockerclient.ContainerPruneOptions) (dockerclient.ContainerPruneResult, error)
	NetworkPrune(ctx context.Context, opts dockerclient.NetworkPruneOptions) (dockerclient.NetworkPruneResult, error)
	ImagePrune(ctx context.Context, opts dockerclient.ImagePruneOptions) (dockerclient.ImagePruneResult, error)
	VolumePrune(ctx context.Context, opts dockerclient.VolumePruneOptions) (dockerclient.VolumePruneResult, error)
	BuildCachePrune(ctx context.Context, opts dockerclient.BuildCachePruneOptions) (dockerclient.BuildCachePruneResult, error)
	Close() error
}

var _ API = (*dockerclient.Client)(nil)

// Error describes a failed daemon operation.
type Error struct {
	Op      string
	Err     error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("docker %s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Connect opens a client configured from DOCKER_HOST and friends and
// checks that the daemon answers.
func Connect(ctx context.Context) (*dockerclient.Client, error) {
	cli, err := dockerclient.New(dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation())
	if err != nil {
		return nil, &Error{Op: "connect", Err: err, Message: "failed to create Docker client"}
	}

	if _, err := cli.Ping(ctx, dockerclient.PingOptions{NegotiateAPIVersion: true}); err != nil {
		_ = cli.Close()
		return nil, &Error{Op: "ping", Err: err, Message: "Docker daemon not available"}
	}
	return cli, nil
}
