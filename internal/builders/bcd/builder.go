package bcd

import (
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deploymenttheory/go-bcd/internal/encoders/identifiers"
	"github.com/deploymenttheory/go-bcd/internal/interfaces"
	"github.com/deploymenttheory/go-bcd/internal/types"
)

// ErrNoDestination is returned by Build when the config has no destination path.
var ErrNoDestination = stderrors.New("no destination")

// IDGenerator produces the identifiers of the loader and resume objects.
type IDGenerator func() (uuid.UUID, error)

// Option customizes a Builder.
type Option func(*Builder)

// WithIDGenerator replaces uuid.NewRandom as the source of generated identifiers.
func WithIDGenerator(gen IDGenerator) Option {
	return func(b *Builder) {
		b.newID = gen
	}
}

// WithLogger sets the logger used for step and commit messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.log = logger
	}
}

// Builder composes the well-known object set and writes it into a Store. A Builder runs one
// build; the generated identifiers are fixed on first use.
type Builder struct {
	cfg   Config
	store interfaces.Store
	newID IDGenerator
	log   zerolog.Logger

	loaderID string
	resumeID string
}

var _ interfaces.GraphBuilder = (*Builder)(nil)

// NewGraphBuilder creates a builder that writes the object graph described by cfg into store.
func NewGraphBuilder(cfg Config, store interfaces.Store, opts ...Option) *Builder {
	b := &Builder{
		cfg:   cfg.withDefaults(),
		store: store,
		newID: uuid.NewRandom,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// identities generates the loader and resume identifiers once per builder.
func (b *Builder) identities() error {
	if b.loaderID != "" {
		return nil
	}
	loader, err := b.newID()
	if err != nil {
		return errors.Wrap(err, "failed to generate loader identifier")
	}
	resume, err := b.newID()
	if err != nil {
		return errors.Wrap(err, "failed to generate resume identifier")
	}
	b.loaderID = identifiers.FormatGUID(loader)
	b.resumeID = identifiers.FormatGUID(resume)
	return nil
}

// Objects composes the complete object list in build order and validates it. The store is
// not touched.
func (b *Builder) Objects() ([]types.Object, error) {
	if err := b.identities(); err != nil {
		return nil, err
	}

	c := &composition{cfg: b.cfg, loaderID: b.loaderID, resumeID: b.resumeID}
	objects := make([]types.Object, 0, len(buildSteps))
	for _, s := range buildSteps {
		obj, err := s.compose(c)
		if err != nil {
			return nil, errors.Wrapf(err, "step %s", s.name)
		}
		b.log.Debug().
			Str("step", s.name).
			Str("object", obj.ID).
			Str("type", obj.Type.String()).
			Int("elements", len(obj.Elements)).
			Msg("composed object")
		objects = append(objects, obj)
	}

	if err := Validate(objects); err != nil {
		return nil, err
	}
	if err := validateIdentity(objects, b.loaderID, b.resumeID); err != nil {
		return nil, err
	}
	return objects, nil
}

// Build verifies the identifier catalog, composes and validates the graph, writes it into the
// store and commits the store. Any failure aborts the build before commit.
func (b *Builder) Build() (*interfaces.BuildResult, error) {
	if b.cfg.Destination == "" {
		return nil, ErrNoDestination
	}
	if err := identifiers.Verify(); err != nil {
		return nil, err
	}

	objects, err := b.Objects()
	if err != nil {
		return nil, err
	}

	if err := Write(b.store, objects); err != nil {
		return nil, err
	}

	if err := b.store.Commit(b.cfg.Destination); err != nil {
		return nil, errors.Wrapf(err, "failed to commit store to %s", b.cfg.Destination)
	}
	b.log.Info().
		Str("destination", b.cfg.Destination).
		Str("loader", b.loaderID).
		Str("resume", b.resumeID).
		Int("objects", len(objects)).
		Msg("store committed")

	return &interfaces.BuildResult{
		Destination: b.cfg.Destination,
		LoaderID:    b.loaderID,
		ResumeID:    b.resumeID,
		Objects:     objects,
	}, nil
}
