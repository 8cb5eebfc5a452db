// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform counts native context creation and records the calls
// made on the contexts it creates.
type fakePlatform struct {
	created    int
	calls      []string
	createErr  error
	makeErr    error
	swapErr    error
	releaseErr error
}

type fakeRenderContext struct {
	p *fakePlatform
}

func (p *fakePlatform) load(*config) error { return nil }

func (p *fakePlatform) libraries() []library { return []library{libraryGL, libraryX11} }

func (p *fakePlatform) validate(d Descriptor) error {
	if d.Display == 0 {
		return ErrInvalidSurface
	}
	return nil
}

func (p *fakePlatform) newRenderContext(Descriptor) (renderContext, error) {
	p.calls = append(p.calls, "create")
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.created++
	return &fakeRenderContext{p: p}, nil
}

func (p *fakePlatform) procAddress(name string) uintptr {
	if name == "glGenBuffers" {
		return 0xbeef
	}
	return 0
}

func (c *fakeRenderContext) makeCurrent(Descriptor) error {
	c.p.calls = append(c.p.calls, "makeCurrent")
	return c.p.makeErr
}

func (c *fakeRenderContext) releaseCurrent(Descriptor) error {
	c.p.calls = append(c.p.calls, "releaseCurrent")
	return nil
}

func (c *fakeRenderContext) swapBuffers(Descriptor) error {
	c.p.calls = append(c.p.calls, "swapBuffers")
	return c.p.swapErr
}

func (c *fakeRenderContext) release() error {
	c.p.calls = append(c.p.calls, "release")
	return c.p.releaseErr
}

// fakeSurface tracks whether it is held.
type fakeSurface struct {
	locked   bool
	locks    int
	released bool
	lockErr  error
}

func (s *fakeSurface) lock() (Descriptor, error) {
	if s.lockErr != nil {
		return Descriptor{}, s.lockErr
	}
	if s.locked {
		panic("surface locked twice")
	}
	s.locked = true
	s.locks++
	return Descriptor{Display: 1, Drawable: 2, Bounds: image.Rect(0, 0, 64, 48)}, nil
}

func (s *fakeSurface) unlock() {
	if !s.locked {
		panic("surface unlocked twice")
	}
	s.locked = false
}

func (s *fakeSurface) release() {
	s.released = true
}

func newTestContext(t *testing.T) (*Context, *fakeSurface, *fakePlatform) {
	t.Helper()
	SetLogger(nil)
	t.Cleanup(func() { SetLogger(newStderrLogger()) })
	s := new(fakeSurface)
	p := new(fakePlatform)
	return newContext(s, p), s, p
}

func TestFrame(t *testing.T) {
	c, s, p := newTestContext(t)
	require.Equal(t, StateInactive, c.Current())

	require.NoError(t, c.Lock())
	assert.Equal(t, StateActive, c.Current())
	assert.True(t, s.locked)
	assert.Equal(t, image.Rect(0, 0, 64, 48), c.Bounds())

	require.NoError(t, c.SwapBuffers())
	require.NoError(t, c.Unlock())
	assert.Equal(t, StateInactive, c.Current())
	assert.False(t, s.locked)
	assert.Equal(t, image.Rectangle{}, c.Bounds())

	require.NoError(t, c.Destroy())
	assert.Equal(t, StateDestroyed, c.Current())
	assert.True(t, s.released)
	assert.Equal(t, []string{"create", "makeCurrent", "swapBuffers", "releaseCurrent", "release"}, p.calls)
}

func TestLazyCreationOnce(t *testing.T) {
	c, s, p := newTestContext(t)
	assert.Zero(t, p.created, "creation must wait for the first lock")
	const cycles = 5
	for i := 0; i < cycles; i++ {
		require.NoError(t, c.Lock())
		require.NoError(t, c.SwapBuffers())
		require.NoError(t, c.Unlock())
	}
	assert.Equal(t, 1, p.created)
	assert.Equal(t, cycles, s.locks)
}

func TestSwapOutsideLock(t *testing.T) {
	c, _, p := newTestContext(t)
	assert.ErrorIs(t, c.SwapBuffers(), ErrNotLocked)

	require.NoError(t, c.Lock())
	require.NoError(t, c.Unlock())
	assert.ErrorIs(t, c.SwapBuffers(), ErrNotLocked)
	assert.NotContains(t, p.calls, "swapBuffers")
}

func TestLockTwice(t *testing.T) {
	c, s, _ := newTestContext(t)
	require.NoError(t, c.Lock())
	assert.ErrorIs(t, c.Lock(), ErrLocked)
	// The first lock is still held and usable.
	assert.Equal(t, StateActive, c.Current())
	assert.Equal(t, 1, s.locks)
	require.NoError(t, c.SwapBuffers())
	require.NoError(t, c.Unlock())
}

func TestUnlockWithoutLock(t *testing.T) {
	c, _, p := newTestContext(t)
	assert.ErrorIs(t, c.Unlock(), ErrNotLocked)
	assert.Empty(t, p.calls)
}

func TestLockAfterUnlock(t *testing.T) {
	c, s, _ := newTestContext(t)
	require.NoError(t, c.Lock())
	require.NoError(t, c.Unlock())
	require.NoError(t, c.Lock())
	assert.True(t, s.locked)
	require.NoError(t, c.Unlock())
}

func TestSurfaceFailure(t *testing.T) {
	c, s, p := newTestContext(t)
	s.lockErr = ErrToolkitAccess
	assert.ErrorIs(t, c.Lock(), ErrToolkitAccess)
	assert.Equal(t, StateInactive, c.Current())
	assert.False(t, s.locked)
	assert.Empty(t, p.calls, "no native calls without a surface")

	s.lockErr = nil
	require.NoError(t, c.Lock())
	require.NoError(t, c.Unlock())
}

func TestCreateFailureIsFinal(t *testing.T) {
	c, s, p := newTestContext(t)
	p.createErr = errors.New("glXCreateContext failed")

	err := c.Lock()
	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "create context", nerr.Op)
	assert.False(t, s.locked, "surface must be released after a failed creation")
	assert.Equal(t, StateInactive, c.Current())

	// No second attempt, even if the platform would now succeed.
	p.createErr = nil
	assert.ErrorIs(t, c.Lock(), err)
	assert.Equal(t, 1, s.locks)
	assert.Equal(t, []string{"create"}, p.calls)

	require.NoError(t, c.Destroy())
	assert.True(t, s.released)
}

func TestMakeCurrentFailure(t *testing.T) {
	c, s, p := newTestContext(t)
	p.makeErr = errors.New("glXMakeCurrent failed")
	var nerr *NativeError
	require.ErrorAs(t, c.Lock(), &nerr)
	assert.Equal(t, "make current", nerr.Op)
	assert.False(t, s.locked)

	p.makeErr = nil
	require.NoError(t, c.Lock())
	require.NoError(t, c.Unlock())
	assert.Equal(t, 1, p.created)
}

func TestSwapFailure(t *testing.T) {
	c, _, p := newTestContext(t)
	require.NoError(t, c.Lock())
	p.swapErr = errors.New("SwapBuffers failed")
	var nerr *NativeError
	assert.ErrorAs(t, c.SwapBuffers(), &nerr)
	assert.Equal(t, StateActive, c.Current())
	require.NoError(t, c.Unlock())
}

func TestDestroy(t *testing.T) {
	c, s, p := newTestContext(t)
	require.NoError(t, c.Destroy())
	assert.True(t, s.released)
	assert.Empty(t, p.calls, "a context that never locked has nothing native to release")

	assert.ErrorIs(t, c.Destroy(), ErrDestroyed)
	assert.ErrorIs(t, c.Lock(), ErrDestroyed)
	assert.ErrorIs(t, c.Unlock(), ErrDestroyed)
	assert.ErrorIs(t, c.SwapBuffers(), ErrDestroyed)
}

func TestDestroyReleaseFailure(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	s := new(fakeSurface)
	p := &fakePlatform{releaseErr: errors.New("wglDeleteContext failed")}
	c := newContext(s, p)
	require.NoError(t, c.Lock())
	require.NoError(t, c.Unlock())
	require.NoError(t, c.Destroy())
	assert.Equal(t, StateDestroyed, c.Current())
	assert.True(t, s.released)
	assert.Contains(t, buf.String(), "release context failed")
	assert.Contains(t, buf.String(), "wglDeleteContext failed")
}

func TestDestroyWhileActive(t *testing.T) {
	c, s, _ := newTestContext(t)
	require.NoError(t, c.Lock())
	assert.ErrorIs(t, c.Destroy(), ErrLocked)
	assert.False(t, s.released)
	require.NoError(t, c.Unlock())
	require.NoError(t, c.Destroy())
}

func TestLockFromAnotherGoroutine(t *testing.T) {
	c, _, _ := newTestContext(t)
	require.NoError(t, c.Lock())
	require.NoError(t, c.Unlock())

	done := make(chan error)
	go func() {
		if err := c.Lock(); err != nil {
			done <- err
			return
		}
		done <- c.Unlock()
	}()
	assert.NoError(t, <-done)
}

func TestNewWindowContext(t *testing.T) {
	old := nativePlatform
	t.Cleanup(func() { nativePlatform = old })

	nativePlatform = nil
	_, err := NewWindowContext(Descriptor{Display: 1, Drawable: 2})
	assert.ErrorIs(t, err, ErrUnsupported)

	p := new(fakePlatform)
	nativePlatform = p
	_, err = NewWindowContext(Descriptor{})
	assert.ErrorIs(t, err, ErrInvalidSurface)

	d := Descriptor{Display: 1, Drawable: 2}
	c, err := NewWindowContext(d)
	require.NoError(t, err)
	require.NoError(t, c.Lock())
	require.NoError(t, c.SwapBuffers())
	require.NoError(t, c.Unlock())
	require.NoError(t, c.Destroy())
	assert.Equal(t, []string{"create", "makeCurrent", "swapBuffers", "releaseCurrent", "release"}, p.calls)
}

func TestLibraryPathConflict(t *testing.T) {
	oldPlatform, oldLoaded := nativePlatform, loaded
	t.Cleanup(func() { nativePlatform, loaded = oldPlatform, oldLoaded })
	t.Setenv(EnvGLLibrary, "")
	t.Setenv(EnvX11Library, "")
	SetLogger(nil)
	t.Cleanup(func() { SetLogger(newStderrLogger()) })
	nativePlatform = new(fakePlatform)
	loaded = new(libraryPaths)
	d := Descriptor{Display: 1, Drawable: 2}

	_, err := NewWindowContext(d, WithGLLibrary("/opt/first/libGL.so.1"))
	require.NoError(t, err)
	_, err = NewWindowContext(d, WithGLLibrary("/opt/first/libGL.so.1"))
	require.NoError(t, err)
	_, err = NewWindowContext(d)
	require.NoError(t, err, "an unset path accepts the loaded library")

	_, err = NewWindowContext(d, WithGLLibrary("/opt/second/libGL.so.1"))
	assert.ErrorIs(t, err, ErrLibraryConflict)
	assert.ErrorContains(t, err, `GL library was loaded from "/opt/first/libGL.so.1", cannot load "/opt/second/libGL.so.1"`)

	_, err = NewWindowContext(d, WithX11Library("/opt/libX11.so.6"))
	assert.ErrorIs(t, err, ErrLibraryConflict)
	assert.ErrorContains(t, err, "X11 library was loaded from the default path")
}

func TestProcAddress(t *testing.T) {
	old := nativePlatform
	t.Cleanup(func() { nativePlatform = old })

	nativePlatform = nil
	assert.Zero(t, ProcAddress("glGenBuffers"))

	nativePlatform = new(fakePlatform)
	assert.Equal(t, uintptr(0xbeef), ProcAddress("glGenBuffers"))
	assert.Zero(t, ProcAddress("glNoSuchFunction"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "inactive", StateInactive.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "destroyed", StateDestroyed.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestHandleConversion(t *testing.T) {
	d := FromInt64[Display](0x7f0012345678)
	assert.Equal(t, Display(0x7f0012345678), d)
	assert.Equal(t, int64(0x7f0012345678), ToInt64(d))
	assert.Equal(t, HDC(0), FromInt64[HDC](0))
}
