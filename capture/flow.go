package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sosflow/geofence"
	"sosflow/report"
)

// State identifies where the capture flow currently is.
type State string

const (
	StateIdle                  State = "idle"
	StateRequestingPermission  State = "requesting_permission"
	StatePermissionDenied      State = "permission_denied"
	StateLocating              State = "locating"
	StateLocationOutsideBounds State = "location_outside_bounds"
	StateLocationReady         State = "location_ready"
	StateFormEditing           State = "form_editing"
	StateValidationFailed      State = "validation_failed"
	StateSubmitting            State = "submitting"
	StateSubmitSucceeded       State = "submit_succeeded"
	StateSubmitFailed          State = "submit_failed"
)

var (
	// ErrPermissionDenied signals the user declined foreground location access.
	ErrPermissionDenied = errors.New("capture: location permission denied")
	// ErrLocationUnavailable signals the device could not produce a fix.
	ErrLocationUnavailable = errors.New("capture: location unavailable")
	// ErrOutOfBounds signals a coordinate outside the village boundary.
	ErrOutOfBounds = errors.New("capture: location outside village bounds")
	// ErrSubmitInFlight rejects a second submit while one is pending.
	ErrSubmitInFlight = errors.New("capture: submission already in flight")
	// ErrPickCancelled is returned by ImagePicker implementations when the
	// user backs out without choosing an image.
	ErrPickCancelled = errors.New("capture: image pick cancelled")
)

// LocationProvider is the device location boundary.
type LocationProvider interface {
	RequestPermission(ctx context.Context) (granted bool, err error)
	CurrentPosition(ctx context.Context) (report.Coordinate, error)
}

// ImagePicker is the device photo-selection boundary.
type ImagePicker interface {
	PickImage(ctx context.Context) (ref string, err error)
}

// Submitter delivers a validated payload to the persistence boundary.
type Submitter interface {
	Submit(ctx context.Context, payload report.Payload) error
}

// Flow drives one report submission: permission, a single location fix
// constrained to the geofence, optional map picks, optional photo, field
// validation, and the submit round-trip. One Flow serves one submission
// attempt cycle; entered fields survive a failed submit so the user can
// retry without retyping.
type Flow struct {
	bounds    geofence.Bounds
	location  LocationProvider
	picker    ImagePicker
	submitter Submitter

	mu         sync.Mutex
	state      State
	coord      *report.Coordinate
	mapVisible bool
	photoRef   *string
	name       string
	phone      string
	comments   string
	submitting bool
}

func NewFlow(bounds geofence.Bounds, location LocationProvider, picker ImagePicker, submitter Submitter) *Flow {
	return &Flow{
		bounds:    bounds,
		location:  location,
		picker:    picker,
		submitter: submitter,
		state:     StateIdle,
	}
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Begin requests location permission and, if granted, captures a single
// device fix. A denied permission or an out-of-bounds fix is surfaced as an
// error and leaves no stored coordinate; the flow remains usable for manual
// map entry either way.
func (f *Flow) Begin(ctx context.Context) error {
	f.setState(StateRequestingPermission)

	granted, err := f.location.RequestPermission(ctx)
	if err != nil {
		f.setState(StatePermissionDenied)
		return fmt.Errorf("capture: request permission: %w", err)
	}
	if !granted {
		f.setState(StatePermissionDenied)
		return ErrPermissionDenied
	}

	f.setState(StateLocating)
	pos, err := f.location.CurrentPosition(ctx)
	if err != nil {
		f.setState(StateFormEditing)
		return fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	if !f.bounds.Contains(pos.Latitude, pos.Longitude) {
		f.setState(StateLocationOutsideBounds)
		return ErrOutOfBounds
	}

	f.mu.Lock()
	f.coord = &pos
	f.state = StateLocationReady
	f.mu.Unlock()
	return nil
}

// ShowMap makes the map visible. Visibility is an independent toggle; it is
// not gated by the automatic capture outcome.
func (f *Flow) ShowMap() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mapVisible = true
}

// HideMap hides the map and discards any picked coordinate. A later ShowMap
// starts from a clean slate.
func (f *Flow) HideMap() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mapVisible = false
	f.coord = nil
}

// MapVisible reports whether the map is currently shown.
func (f *Flow) MapVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mapVisible
}

// SelectLocation records a map tap. Out-of-bounds picks are rejected and the
// previously selected coordinate is kept.
func (f *Flow) SelectLocation(lat, lon float64) error {
	if !f.bounds.Contains(lat, lon) {
		return ErrOutOfBounds
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coord = &report.Coordinate{Latitude: lat, Longitude: lon}
	return nil
}

// SelectedLocation returns the currently held coordinate, or nil.
func (f *Flow) SelectedLocation() *report.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.coord == nil {
		return nil
	}
	c := *f.coord
	return &c
}

// AttachPhoto opens the device picker. A cancelled pick leaves the current
// photo untouched. At most one photo is held; a new pick replaces it.
func (f *Flow) AttachPhoto(ctx context.Context) error {
	ref, err := f.picker.PickImage(ctx)
	if err != nil {
		if errors.Is(err, ErrPickCancelled) {
			return nil
		}
		return fmt.Errorf("capture: pick image: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photoRef = &ref
	return nil
}

// RemovePhoto detaches the photo without touching any other field.
func (f *Flow) RemovePhoto() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photoRef = nil
}

// PhotoRef returns the attached photo reference, or nil.
func (f *Flow) PhotoRef() *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.photoRef == nil {
		return nil
	}
	p := *f.photoRef
	return &p
}

func (f *Flow) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
	f.state = StateFormEditing
}

// SetPhone stores phone input with all whitespace stripped, as the entry
// field does on every keystroke.
func (f *Flow) SetPhone(phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phone = report.SanitizePhone(phone)
	f.state = StateFormEditing
}

func (f *Flow) SetComments(comments string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = comments
	f.state = StateFormEditing
}

// Fields returns the current form values.
func (f *Flow) Fields() (name, phone, comments string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name, f.phone, f.comments
}

// Submit validates the form and dispatches the payload. Validation stops at
// the first failing field. A coordinate is included only while the map is
// shown with a pick held; otherwise the wire sentinel (0,0) goes out. Only
// one submission may be in flight per flow; once dispatched it is not
// cancellable and a transport failure surfaces as an error with all entered
// fields retained.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}

	if verr := report.Validate(f.name, f.phone, f.comments); verr != nil {
		f.state = StateValidationFailed
		f.mu.Unlock()
		return verr
	}

	params := report.CreateParams{
		Name:      f.name,
		Telephone: f.phone,
		Comments:  f.comments,
		PhotoRef:  f.photoRef,
	}
	if f.mapVisible && f.coord != nil {
		c := *f.coord
		params.Coordinates = &c
	}

	payload, err := report.EncodePayload(params)
	if err != nil {
		f.mu.Unlock()
		return err
	}

	f.submitting = true
	f.state = StateSubmitting
	f.mu.Unlock()

	submitErr := f.submitter.Submit(ctx, payload)

	f.mu.Lock()
	f.submitting = false
	if submitErr != nil {
		f.state = StateSubmitFailed
	} else {
		f.state = StateSubmitSucceeded
	}
	f.mu.Unlock()

	if submitErr != nil {
		return fmt.Errorf("capture: submit: %w", submitErr)
	}
	return nil
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}
