package mediator_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/simplemediator-go/internal/application/mediator"
)

// permutations returns every ordering of in
func permutations(in []mediator.Descriptor) [][]mediator.Descriptor {
	if len(in) <= 1 {
		return [][]mediator.Descriptor{append([]mediator.Descriptor(nil), in...)}
	}
	var out [][]mediator.Descriptor
	for i := range in {
		rest := make([]mediator.Descriptor, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]mediator.Descriptor{in[i]}, p...))
		}
	}
	return out
}

func validCandidates() []mediator.Descriptor {
	f := &identityFactory{}
	return []mediator.Descriptor{
		mediator.Describe("PingHandler", mediator.Handles(pingFactory)),
		mediator.Describe("IdentityHandler", mediator.Handles(f.New)).WithLifetime(mediator.LifetimeSingleton),
		mediator.Describe("ListItemsHandler",
			mediator.Handles(mediator.Instance[listItemsQuery, []string](referenceListHandler{}))),
	}
}

func TestDiscover_RegistersOneBindingPerCandidate(t *testing.T) {
	// Arrange
	reg := mediator.NewRegistry(mediator.LifetimeScoped)

	// Act
	err := reg.Discover(validCandidates()...)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	b, ok := reg.Resolve(reflect.TypeOf(instanceQuery{}))
	require.True(t, ok)
	assert.Equal(t, "IdentityHandler", b.Handler)
	assert.Equal(t, mediator.LifetimeSingleton, b.Lifetime)

	b, ok = reg.Resolve(reflect.TypeOf(pingQuery{}))
	require.True(t, ok)
	assert.Equal(t, mediator.LifetimeScoped, b.Lifetime)
}

func TestDiscover_ResultIsIndependentOfCandidateOrder(t *testing.T) {
	// Arrange
	baseline := mediator.NewRegistry(mediator.LifetimeScoped)
	require.NoError(t, baseline.Discover(validCandidates()...))
	expected := baseline.Bindings()

	for _, order := range permutations(validCandidates()) {
		// Act
		reg := mediator.NewRegistry(mediator.LifetimeScoped)
		err := reg.Discover(order...)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, expected, reg.Bindings())
	}
}

func TestDiscover_DuplicateFailsWholeDiscoveryInAnyOrder(t *testing.T) {
	// Arrange
	candidates := append(validCandidates(),
		mediator.Describe("AlternatePingHandler", mediator.Handles(pingFactory)))

	var messages []string
	for _, order := range permutations(candidates) {
		reg := mediator.NewRegistry(mediator.LifetimeScoped)

		// Act
		err := reg.Discover(order...)

		// Assert
		require.ErrorIs(t, err, mediator.ErrDuplicateBinding)
		var dup *mediator.DuplicateBindingError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, reflect.TypeOf(pingQuery{}), dup.RequestType)
		assert.Equal(t, []string{"AlternatePingHandler", "PingHandler"}, dup.Handlers)
		assert.Equal(t, 0, reg.Len(), "no binding is added when discovery fails")
		messages = append(messages, err.Error())
	}

	for _, msg := range messages[1:] {
		assert.Equal(t, messages[0], msg)
	}
}

func TestDiscover_ReportsEveryConflict(t *testing.T) {
	// Arrange
	f := &identityFactory{}
	reg := mediator.NewRegistry(mediator.LifetimeScoped)
	candidates := append(validCandidates(),
		mediator.Describe("OtherPing", mediator.Handles(pingFactory)),
		mediator.Describe("OtherIdentity", mediator.Handles(f.New)),
	)

	// Act
	err := reg.Discover(candidates...)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrDuplicateBinding)
	assert.Contains(t, err.Error(), "mediator_test.instanceQuery")
	assert.Contains(t, err.Error(), "mediator_test.pingQuery")

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 2)
	assert.Equal(t, 0, reg.Len())
}

func TestDiscover_ConflictsWithExistingRegistration(t *testing.T) {
	// Arrange
	reg := mediator.NewRegistry(mediator.LifetimeScoped)
	require.NoError(t, mediator.Register(reg, "ManualPing", mediator.LifetimeDefault, pingFactory))

	// Act
	err := reg.Discover(validCandidates()...)

	// Assert
	var dup *mediator.DuplicateBindingError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []string{"ManualPing", "PingHandler"}, dup.Handlers)
	assert.Equal(t, 1, reg.Len())
}

func TestDiscover_SkipsNonInstantiableCandidates(t *testing.T) {
	// Arrange
	reg := mediator.NewRegistry(mediator.LifetimeTransient)
	candidates := []mediator.Descriptor{
		mediator.Describe("BasePingHandler", mediator.Handles(pingFactory)).Abstract(),
		mediator.Describe("PingHandler", mediator.Handles(pingFactory)),
		mediator.Describe("Unbuildable", mediator.Handles[unregisteredQuery, bool](nil)),
		mediator.Describe("AbstractRequestHandler", mediator.Handles(
			func() (mediator.Handler[abstractQuery, int64], error) { return nil, nil })),
	}

	// Act
	err := reg.Discover(candidates...)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	b, ok := reg.Resolve(reflect.TypeOf(pingQuery{}))
	require.True(t, ok)
	assert.Equal(t, "PingHandler", b.Handler)
}

func TestDiscover_MultiplePairingsOnOneImplementation(t *testing.T) {
	// Arrange
	reg := mediator.NewRegistry(mediator.LifetimeTransient)
	var built int
	shared := func() (mediator.Handler[otherInstanceQuery, int64], error) {
		built++
		return mediator.HandlerFunc[otherInstanceQuery, int64](
			func(context.Context, otherInstanceQuery) (int64, error) { return 7, nil }), nil
	}

	// Act
	err := reg.Discover(mediator.Describe("CombinedHandler",
		mediator.Handles(pingFactory),
		mediator.Handles(shared),
	))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	d := mediator.NewDispatcher(reg)
	resp, err := mediator.Send(context.Background(), d, otherInstanceQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp)
	assert.Equal(t, 1, built)
}

func TestDiscover_AfterSealFails(t *testing.T) {
	reg := mediator.NewRegistry(mediator.LifetimeTransient)
	reg.Seal()

	err := reg.Discover(validCandidates()...)

	assert.ErrorIs(t, err, mediator.ErrRegistrySealed)
	assert.Equal(t, 0, reg.Len())
}

func TestDescriptor_Name(t *testing.T) {
	assert.Equal(t, "PingHandler", mediator.Describe("PingHandler").Name())
}
