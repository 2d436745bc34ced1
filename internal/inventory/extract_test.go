package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAPK(t *testing.T) {
	one := app("com.example.one", "One", "1.2.3")

	locator := &fakeLocator{dest: "/exports"}
	sink := &fakeSink{}

	store := newTestStore(newFakeSource(one), locator, sink)
	require.NoError(t, store.LoadPackages(context.Background()))

	outcome := store.ExtractAPK(context.Background(), one, "")

	assert.True(t, outcome.Extracted())
	assert.Equal(t, "/exports/One_com.example.one_1.2.3_ab0de.apk", outcome.File)

	// Name combines app name, identifier, version, and the random suffix
	require.Len(t, sink.names, 1)
	assert.Equal(t, "One_com.example.one_1.2.3_ab0de", sink.names[0])
	assert.Equal(t, []byte("bytes of com.example.one"), sink.data[0])
}

func TestExtractAPKExplicitDestination(t *testing.T) {
	one := app("com.example.one", "One", "1.0")

	locator := &fakeLocator{dest: "/configured"}
	sink := &fakeSink{}

	store := newTestStore(newFakeSource(one), locator, sink)
	require.NoError(t, store.LoadPackages(context.Background()))

	outcome := store.ExtractAPK(context.Background(), one, "/explicit")

	assert.True(t, outcome.Extracted())
	assert.Equal(t, []string{"/explicit"}, sink.parents)

	// The locator is bypassed entirely
	assert.Zero(t, locator.ensured)
}

func TestExtractAPKNoDestination(t *testing.T) {
	one := app("com.example.one", "One", "1.0")

	sink := &fakeSink{}

	store := newTestStore(newFakeSource(one), &fakeLocator{}, sink)
	require.NoError(t, store.LoadPackages(context.Background()))

	outcome := store.ExtractAPK(context.Background(), one, "")

	// Denied, with the source path as the placeholder file reference
	assert.True(t, outcome.PermissionDenied())
	assert.Equal(t, one.Path, outcome.File)
	assert.Empty(t, sink.names)
}

func TestExtractAPKReadFailure(t *testing.T) {
	one := app("com.example.one", "One", "1.0")

	source := newFakeSource(one)
	source.readErr = errors.New("device gone")

	store := newTestStore(source, &fakeLocator{dest: "/exports"}, &fakeSink{})
	require.NoError(t, store.LoadPackages(context.Background()))

	outcome := store.ExtractAPK(context.Background(), one, "")

	assert.True(t, outcome.PermissionDenied())
	assert.Equal(t, one.Path, outcome.File)
}

func TestExtractAPKWriteFailure(t *testing.T) {
	one := app("com.example.one", "One", "1.0")

	sink := &fakeSink{err: errors.New("read-only folder")}

	store := newTestStore(newFakeSource(one), &fakeLocator{dest: "/exports"}, sink)
	require.NoError(t, store.LoadPackages(context.Background()))

	outcome := store.ExtractAPK(context.Background(), one, "")

	// A failed write collapses into the denied kind at this layer
	assert.True(t, outcome.PermissionDenied())
	assert.Equal(t, one.Path, outcome.File)
}

func TestExtractSelected(t *testing.T) {
	one := app("com.example.one", "One", "1.0")
	two := app("com.example.two", "Two", "2.0")

	locator := &fakeLocator{dest: "/exports"}
	sink := &fakeSink{}

	store := newTestStore(newFakeSource(one, two), locator, sink)
	require.NoError(t, store.LoadPackages(context.Background()))

	// Select in reverse; outcomes still follow discovery order
	store.ToggleSelect(two)
	store.ToggleSelect(one)

	batch := store.ExtractSelected(context.Background())

	assert.Equal(t, BatchAllExtracted, batch.Kind)
	require.Len(t, batch.Outcomes, 2)
	assert.Equal(t, "com.example.one", batch.Outcomes[0].App.Identifier)
	assert.Equal(t, "com.example.two", batch.Outcomes[1].App.Identifier)

	// One shared destination, resolved exactly once for the whole batch
	assert.Equal(t, 1, locator.ensured)
	assert.Equal(t, []string{"/exports", "/exports"}, sink.parents)
}

func TestExtractSelectedNoDestination(t *testing.T) {
	one := app("com.example.one", "One", "1.0")

	store := newTestStore(newFakeSource(one), &fakeLocator{}, &fakeSink{})
	require.NoError(t, store.LoadPackages(context.Background()))

	store.ToggleSelect(one)

	batch := store.ExtractSelected(context.Background())

	// Short-circuits to denied instead of misreading zero items as all-failed
	assert.Equal(t, BatchPermissionDenied, batch.Kind)
	assert.Empty(t, batch.Outcomes)
}

func TestExtractSelectedLocatorFailure(t *testing.T) {
	one := app("com.example.one", "One", "1.0")

	store := newTestStore(newFakeSource(one), &fakeLocator{err: errors.New("prompt failed")}, &fakeSink{})
	require.NoError(t, store.LoadPackages(context.Background()))

	store.ToggleSelect(one)

	batch := store.ExtractSelected(context.Background())

	assert.Equal(t, BatchPermissionDenied, batch.Kind)
	assert.Empty(t, batch.Outcomes)
}

func TestExtractSelectedWriteFailureDeniesBatch(t *testing.T) {
	one := app("com.example.one", "One", "1.0")
	two := app("com.example.two", "Two", "2.0")

	// Every write fails; each item collapses to denied, so the batch does too
	sink := &fakeSink{err: errors.New("read-only folder")}

	store := newTestStore(newFakeSource(one, two), &fakeLocator{dest: "/exports"}, sink)
	require.NoError(t, store.LoadPackages(context.Background()))

	store.ToggleSelectAll()

	batch := store.ExtractSelected(context.Background())

	assert.Equal(t, BatchPermissionDenied, batch.Kind)
	assert.Len(t, batch.Outcomes, 2)
}

func TestExtractSelectedEmptySelection(t *testing.T) {
	one := app("com.example.one", "One", "1.0")

	store := newTestStore(newFakeSource(one), &fakeLocator{dest: "/exports"}, &fakeSink{})
	require.NoError(t, store.LoadPackages(context.Background()))

	batch := store.ExtractSelected(context.Background())

	// A resolved destination with nothing selected is an empty failed batch
	assert.Equal(t, BatchAllFailed, batch.Kind)
	assert.Empty(t, batch.Outcomes)
}
