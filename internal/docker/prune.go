package docker

import (
	"context"
	"errors"
	"time"

	dockerclient "github.com/moby/moby/client"
	"github.com/rs/zerolog"
)

// DefaultUntil keeps anything created during the last week.
const DefaultUntil = 168 * time.Hour

// Object kinds as used in Report.Reclaimed and in metrics labels.
const (
	KindContainers = "containers"
	KindNetworks   = "networks"
	KindImages     = "images"
	KindBuildCache = "build_cache"
	KindVolumes    = "volumes"
)

// Options selects what one prune pass removes.
type Options struct {
	// Until spares objects younger than this. Zero prunes regardless of age.
	Until time.Duration
	// Volumes also prunes unused anonymous volumes. The daemon does not
	// accept an age filter for volumes.
	Volumes bool
}

// Report totals what was removed.
type Report struct {
	Containers  int
	Networks    int
	Images      int
	BuildCaches int
	Volumes     int
	Reclaimed   map[string]uint64
}

// SpaceReclaimed sums the bytes freed over every kind.
func (r Report) SpaceReclaimed() uint64 {
	var n uint64
	for _, v := range r.Reclaimed {
		n += v
	}
	return n
}

func (r *Report) add(kind string, bytes uint64) {
	if r.Reclaimed == nil {
		r.Reclaimed = make(map[string]uint64)
	}
	r.Reclaimed[kind] += bytes
}

func (r *Report) merge(o Report) {
	r.Containers += o.Containers
	r.Networks += o.Networks
	r.Images += o.Images
	r.BuildCaches += o.BuildCaches
	r.Volumes += o.Volumes
	for k, v := range o.Reclaimed {
		r.add(k, v)
	}
}

// Pruner removes unused containers, networks, images, build cache and
// volumes, like "docker system prune --all".
type Pruner struct {
	api API
	log zerolog.Logger
}

// NewPruner returns a Pruner using api.
func NewPruner(api API, log zerolog.Logger) *Pruner {
	return &Pruner{api: api, log: log}
}

// Prune runs one pass. A failing object kind does not stop the others; all
// failures are joined into the returned error.
func (p *Pruner) Prune(ctx context.Context, opts Options) (Report, error) {
	var (
		rep  Report
		errs []error
	)

	filters := func() dockerclient.Filters {
		f := make(dockerclient.Filters)
		if opts.Until > 0 {
			f.Add("until", opts.Until.String())
		}
		return f
	}

	if res, err := p.api.ContainerPrune(ctx, dockerclient.ContainerPruneOptions{Filters: filters()}); err != nil {
		errs = append(errs, &Error{Op: "prune", Err: err, Message: KindContainers})
	} else {
		rep.Containers = len(res.Report.ContainersDeleted)
		rep.add(KindContainers, res.Report.SpaceReclaimed)
	}

	if res, err := p.api.NetworkPrune(ctx, dockerclient.NetworkPruneOptions{Filters: filters()}); err != nil {
		errs = append(errs, &Error{Op: "prune", Err: err, Message: KindNetworks})
	} else {
		rep.Networks = len(res.Report.NetworksDeleted)
	}

	// dangling=false widens the prune to every unused image.
	imgFilters := filters()
	imgFilters.Add("dangling", "false")
	if res, err := p.api.ImagePrune(ctx, dockerclient.ImagePruneOptions{Filters: imgFilters}); err != nil {
		errs = append(errs, &Error{Op: "prune", Err: err, Message: KindImages})
	} else {
		rep.Images = len(res.Report.ImagesDeleted)
		rep.add(KindImages, res.Report.SpaceReclaimed)
	}

	if res, err := p.api.BuildCachePrune(ctx, dockerclient.BuildCachePruneOptions{All: true, Filters: filters()}); err != nil {
		errs = append(errs, &Error{Op: "prune", Err: err, Message: KindBuildCache})
	} else {
		rep.BuildCaches = len(res.Report.CachesDeleted)
		rep.add(KindBuildCache, res.Report.SpaceReclaimed)
	}

	if opts.Volumes {
		if res, err := p.api.VolumePrune(ctx, dockerclient.VolumePruneOptions{}); err != nil {
			errs = append(errs, &Error{Op: "prune", Err: err, Message: KindVolumes})
		} else {
			rep.Volumes = len(res.Report.VolumesDeleted)
			rep.add(KindVolumes, res.Report.SpaceReclaimed)
		}
	}

	p.log.Debug().
		Dur("until", opts.Until).
		Bool("volumes", opts.Volumes).
		Int("containers", rep.Containers).
		Int("networks", rep.Networks).
		Int("images", rep.Images).
		Int("build_caches", rep.BuildCaches).
		Int("volumes_deleted", rep.Volumes).
		Uint64("reclaimed", rep.SpaceReclaimed()).
		Msg("prune pass finished")

	return rep, errors.Join(errs...)
}

// System performs the weekly maintenance: everything unused and older than
// DefaultUntil, then a second pass that also drops unused volumes.
func (p *Pruner) System(ctx context.Context) (Report, error) {
	rep, err1 := p.Prune(ctx, Options{Until: DefaultUntil})
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	second, err2 := p.Prune(ctx, Options{Volumes: true})
	rep.merge(second)
	return rep, errors.Join(err1, err2)
}
