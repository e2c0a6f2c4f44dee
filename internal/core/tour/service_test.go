// Copyright (c) 2026 Fleetdesk. All rights reserved.
// Author: dev@fleetdesk.io

package tour_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/core/driver"
	"github.com/fleetdesk/fleetdesk/internal/core/tour"
	"github.com/fleetdesk/fleetdesk/internal/core/vehicle"
	"github.com/fleetdesk/fleetdesk/internal/platform/apperr"
	"github.com/fleetdesk/fleetdesk/internal/platform/sec"
	"github.com/fleetdesk/fleetdesk/pkg/pagination"
	"github.com/fleetdesk/fleetdesk/pkg/pointer"
)

// # In-Memory Fakes
//
// memoryTourRepo mirrors the conditional-write semantics of the Postgres
// store: the exclusivity predicate and the update happen under one lock, and
// a rejected guard reports false instead of an error.

type memoryTourRepo struct {
	mu    sync.Mutex
	tours map[string]*tour.Tour
	clock time.Time
}

func newMemoryTourRepo() *memoryTourRepo {
	return &memoryTourRepo{
		tours: map[string]*tour.Tour{},
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so creation order is stable.
func (repo *memoryTourRepo) tick() time.Time {
	repo.clock = repo.clock.Add(time.Second)
	return repo.clock
}

func copyTour(t *tour.Tour) *tour.Tour {
	clone := *t
	clone.Children = nil
	clone.Stops = make([]*tour.UnloadingStop, len(t.Stops))
	for i, stop := range t.Stops {
		s := *stop
		clone.Stops[i] = &s
	}
	return &clone
}

func (repo *memoryTourRepo) Create(_ context.Context, t *tour.Tour) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	t.CreatedAt = repo.tick()
	t.UpdatedAt = t.CreatedAt
	repo.tours[t.ID] = copyTour(t)
	return nil
}

func (repo *memoryTourRepo) FindByID(_ context.Context, organizationID, id string) (*tour.Tour, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.tours[id]
	if !ok || stored.OrganizationID != organizationID {
		return nil, apperr.NotFound("Tour")
	}
	return copyTour(stored), nil
}

func (repo *memoryTourRepo) ListChildren(_ context.Context, organizationID, parentTourID string) ([]*tour.Tour, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	children := []*tour.Tour{}
	for _, stored := range repo.tours {
		if stored.OrganizationID != organizationID {
			continue
		}
		if stored.ParentTourID != nil && *stored.ParentTourID == parentTourID {
			children = append(children, copyTour(stored))
		}
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].CreatedAt.Before(children[j].CreatedAt)
	})
	return children, nil
}

func (repo *memoryTourRepo) List(_ context.Context, organizationID string, filter tour.ListFilter, _ pagination.Params) ([]*tour.Tour, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	tours := []*tour.Tour{}
	for _, stored := range repo.tours {
		if stored.OrganizationID != organizationID {
			continue
		}
		if filter.Completed != nil && stored.IsCompleted != *filter.Completed {
			continue
		}
		if filter.Invoiced != nil && stored.IsInvoiced != *filter.Invoiced {
			continue
		}
		if filter.TourType != nil && stored.TourType != *filter.TourType {
			continue
		}
		tours = append(tours, copyTour(stored))
	}
	sort.Slice(tours, func(i, j int) bool {
		return tours[i].CreatedAt.After(tours[j].CreatedAt)
	})
	return tours, len(tours), nil
}

func (repo *memoryTourRepo) ListAll(context context.Context, organizationID string) ([]*tour.Tour, error) {
	tours, _, err := repo.List(context, organizationID, tour.ListFilter{}, pagination.Params{})
	return tours, err
}

func (repo *memoryTourRepo) Update(_ context.Context, t *tour.Tour) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.tours[t.ID]
	if !ok || stored.OrganizationID != t.OrganizationID {
		return apperr.NotFound("Tour")
	}

	stored.TourType = t.TourType
	stored.LoadingLocation = t.LoadingLocation
	stored.LoadingDate = t.LoadingDate
	stored.ExportCustoms = t.ExportCustoms
	stored.ImportCustoms = t.ImportCustoms
	stored.Price = t.Price
	stored.Company = t.Company
	stored.IsADR = t.IsADR
	stored.Stops = copyTour(t).Stops
	stored.UpdatedAt = repo.tick()
	return nil
}

func (repo *memoryTourRepo) SetParent(_ context.Context, organizationID, id string, parentTourID *string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.tours[id]
	if !ok || stored.OrganizationID != organizationID {
		return apperr.NotFound("Tour")
	}
	stored.ParentTourID = parentTourID
	stored.UpdatedAt = repo.tick()
	return nil
}

func (repo *memoryTourRepo) Delete(_ context.Context, organizationID, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	delete(repo.tours, id)
	for _, stored := range repo.tours {
		if stored.ParentTourID != nil && *stored.ParentTourID == id {
			stored.ParentTourID = nil
		}
	}
	return nil
}

func (repo *memoryTourRepo) AssignDriver(_ context.Context, organizationID, id string, driverID *string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.tours[id]
	if !ok || stored.OrganizationID != organizationID {
		return false, nil
	}

	if driverID != nil {
		for _, other := range repo.tours {
			if other.ID == id || other.OrganizationID != organizationID {
				continue
			}
			if other.DriverID != nil && *other.DriverID == *driverID && !other.IsCompleted {
				return false, nil
			}
		}
	}

	stored.DriverID = driverID
	stored.UpdatedAt = repo.tick()
	return true, nil
}

func (repo *memoryTourRepo) AssignTruck(context context.Context, organizationID, id string, truckID *string) (bool, error) {
	return repo.assignVehicle(organizationID, id, truckID,
		func(t *tour.Tour) **string { return &t.TruckID })
}

func (repo *memoryTourRepo) AssignTrailer(context context.Context, organizationID, id string, trailerID *string) (bool, error) {
	return repo.assignVehicle(organizationID, id, trailerID,
		func(t *tour.Tour) **string { return &t.TrailerID })
}

func (repo *memoryTourRepo) assignVehicle(organizationID, id string, vehicleID *string, column func(*tour.Tour) **string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.tours[id]
	if !ok || stored.OrganizationID != organizationID {
		return false, nil
	}

	if vehicleID != nil {
		for _, other := range repo.tours {
			if other.ID == id || other.OrganizationID != organizationID {
				continue
			}
			held := *column(other)
			// Only active tours (driver assigned, not completed) hold vehicles.
			if held != nil && *held == *vehicleID && other.DriverID != nil && !other.IsCompleted {
				return false, nil
			}
		}
	}

	*column(stored) = vehicleID
	stored.UpdatedAt = repo.tick()
	return true, nil
}

func (repo *memoryTourRepo) MarkCompleted(_ context.Context, organizationID string, ids []string, completedAt time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		if stored, ok := repo.tours[id]; ok && stored.OrganizationID == organizationID {
			stored.IsCompleted = true
			at := completedAt
			stored.CompletedAt = &at
			stored.UpdatedAt = repo.tick()
		}
	}
	return nil
}

func (repo *memoryTourRepo) CompleteGroup(context context.Context, organizationID string, ids []string, completedAt time.Time) error {
	if err := repo.MarkCompleted(context, organizationID, ids, completedAt); err != nil {
		return err
	}
	return repo.ReleaseResources(context, organizationID, ids)
}

func (repo *memoryTourRepo) ReleaseResources(_ context.Context, organizationID string, ids []string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		if stored, ok := repo.tours[id]; ok && stored.OrganizationID == organizationID {
			stored.DriverID = nil
			stored.TruckID = nil
			stored.TrailerID = nil
			stored.UpdatedAt = repo.tick()
		}
	}
	return nil
}

func (repo *memoryTourRepo) SetInvoiced(_ context.Context, t *tour.Tour) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.tours[t.ID]
	if !ok || stored.OrganizationID != t.OrganizationID {
		return apperr.NotFound("Tour")
	}
	stored.IsInvoiced = t.IsInvoiced
	stored.InvoiceNumber = t.InvoiceNumber
	stored.UpdatedAt = repo.tick()
	return nil
}

type fakeDriverDirectory struct {
	drivers map[string]*driver.Driver
}

func (directory *fakeDriverDirectory) FindByID(_ context.Context, organizationID, id string) (*driver.Driver, error) {
	d, ok := directory.drivers[id]
	if !ok || d.OrganizationID != organizationID {
		return nil, apperr.NotFound("Driver")
	}
	return d, nil
}

type fakeVehicleDirectory struct {
	vehicles map[string]*vehicle.Vehicle
}

func (directory *fakeVehicleDirectory) FindByID(_ context.Context, organizationID, id string) (*vehicle.Vehicle, error) {
	v, ok := directory.vehicles[id]
	if !ok || v.OrganizationID != organizationID {
		return nil, apperr.NotFound("Vehicle")
	}
	return v, nil
}

// # Test Harness

func newTourService() (*tour.Service, *memoryTourRepo) {
	repo := newMemoryTourRepo()
	drivers := &fakeDriverDirectory{drivers: map[string]*driver.Driver{
		"driver-1": {ID: "driver-1", OrganizationID: "org-1", FirstName: "Jane", LastName: "Kovacs"},
		"driver-2": {ID: "driver-2", OrganizationID: "org-1", FirstName: "Marko", LastName: "Horvat"},
	}}
	vehicles := &fakeVehicleDirectory{vehicles: map[string]*vehicle.Vehicle{
		"truck-1":   {ID: "truck-1", OrganizationID: "org-1", VehicleType: vehicle.TypeTruck, RegistrationNumber: "ZG-1234-AB"},
		"trailer-1": {ID: "trailer-1", OrganizationID: "org-1", VehicleType: vehicle.TypeTrailer, RegistrationNumber: "ZG-5678-CD"},
	}}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return tour.NewService(repo, drivers, vehicles, logger), repo
}

func dispatcher() *sec.Identity {
	return &sec.Identity{
		UserID:         "user-1",
		Role:           sec.RoleDispatcher,
		OrganizationID: "org-1",
	}
}

func validInput() tour.Input {
	loading := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	unloading := loading.AddDate(0, 0, 2)
	return tour.Input{
		TourType:        tour.TypeExport,
		LoadingLocation: "Zagreb",
		LoadingDate:     &loading,
		Price:           1800,
		Company:         "Adria Logistics",
		Stops: []tour.StopInput{
			{Location: "Munich", UnloadingDate: &unloading},
		},
	}
}

func mustCreate(t *testing.T, service *tour.Service) *tour.Tour {
	t.Helper()
	created, err := service.CreateTour(context.Background(), dispatcher(), validInput())
	require.NoError(t, err)
	return created
}

// # Creation

/*
TestCreateTour verifies a new tour starts contracted: no driver, no vehicles,
not completed, with its stops ordered as submitted.
*/
func TestCreateTour(t *testing.T) {
	service, _ := newTourService()

	created := mustCreate(t, service)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "org-1", created.OrganizationID)
	assert.Nil(t, created.DriverID)
	assert.Nil(t, created.TruckID)
	assert.Nil(t, created.TrailerID)
	assert.False(t, created.IsCompleted)
	assert.False(t, created.IsInvoiced)
	assert.False(t, created.IsActive())

	require.Len(t, created.Stops, 1)
	assert.Equal(t, 0, created.Stops[0].Position)
	assert.Equal(t, "Munich", created.Stops[0].Location)
}

/*
TestCreateTour_Validation checks the contract-field rules.
*/
func TestCreateTour_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*tour.Input)
		field  string
	}{
		{"unknown_type", func(in *tour.Input) { in.TourType = "LOCAL" }, "tour_type"},
		{"missing_loading_location", func(in *tour.Input) { in.LoadingLocation = "" }, "loading_location"},
		{"negative_price", func(in *tour.Input) { in.Price = -1 }, "price"},
		{"missing_company", func(in *tour.Input) { in.Company = "" }, "company"},
		{"no_stops", func(in *tour.Input) { in.Stops = nil }, "unloading_stops"},
		{"empty_stop_location", func(in *tour.Input) { in.Stops[0].Location = "" }, "unloading_stops[0].location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTourService()
			input := validInput()
			tt.mutate(&input)

			_, err := service.CreateTour(context.Background(), dispatcher(), input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)
		})
	}
}

/*
TestCreateTour_OptionalDates verifies a tour can be contracted before its
schedule is known: neither the loading date nor a stop's unloading date is
required.
*/
func TestCreateTour_OptionalDates(t *testing.T) {
	service, _ := newTourService()

	input := validInput()
	input.LoadingDate = nil
	input.Stops[0].UnloadingDate = nil

	created, err := service.CreateTour(context.Background(), dispatcher(), input)
	require.NoError(t, err)

	assert.Nil(t, created.LoadingDate)
	require.Len(t, created.Stops, 1)
	assert.Nil(t, created.Stops[0].UnloadingDate)

	fetched, err := service.GetTour(context.Background(), dispatcher(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.LoadingDate)
	assert.Nil(t, fetched.Stops[0].UnloadingDate)
}

// # Driver Assignment

/*
TestAssignDriver_Exclusivity verifies a driver backs at most one not-completed
tour, and that detaching frees them for reuse.
*/
func TestAssignDriver_Exclusivity(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	first := mustCreate(t, service)
	second := mustCreate(t, service)

	// 1. First assignment succeeds and activates the tour.
	assigned, err := service.AssignDriver(context.Background(), identity, first.ID, pointer.To("driver-1"))
	require.NoError(t, err)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, "driver-1", *assigned.DriverID)
	assert.True(t, assigned.IsActive())

	// 2. Same driver on a second open tour is a conflict, named after the driver.
	_, err = service.AssignDriver(context.Background(), identity, second.ID, pointer.To("driver-1"))
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, "Driver Jane Kovacs is already assigned to an active tour", ae.Message)

	// 3. Detach from the first tour, then the second assignment goes through.
	detached, err := service.AssignDriver(context.Background(), identity, first.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, detached.DriverID)

	assigned, err = service.AssignDriver(context.Background(), identity, second.ID, pointer.To("driver-1"))
	require.NoError(t, err)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, "driver-1", *assigned.DriverID)
}

/*
TestAssignDriver_Concurrent races two assignments of the same driver onto two
open tours. The check and the write happen under one repository lock, so
exactly one call wins regardless of interleaving; the loser gets a conflict.
*/
func TestAssignDriver_Concurrent(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	first := mustCreate(t, service)
	second := mustCreate(t, service)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for index, tourID := range []string{first.ID, second.ID} {
		go func(index int, tourID string) {
			defer wg.Done()
			_, errs[index] = service.AssignDriver(context.Background(), identity, tourID, pointer.To("driver-1"))
		}(index, tourID)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
		conflicted++
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

/*
TestAssignDriver_NotFound covers unknown drivers and unknown tours. Both
surface as 404, never as a conflict.
*/
func TestAssignDriver_NotFound(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	created := mustCreate(t, service)

	_, err := service.AssignDriver(context.Background(), identity, created.ID, pointer.To("driver-unknown"))
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = service.AssignDriver(context.Background(), identity, "tour-unknown", pointer.To("driver-1"))
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Vehicle Assignment

/*
TestAssignVehicle_ContractedToursShare verifies two contracted tours may
reference the same truck: nothing is moving yet, so there is no conflict.
*/
func TestAssignVehicle_ContractedToursShare(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	first := mustCreate(t, service)
	second := mustCreate(t, service)

	truck := tour.VehicleAssignment{TruckID: tour.PatchField{Set: true, Value: pointer.To("truck-1")}}

	_, err := service.AssignVehicle(context.Background(), identity, first.ID, truck)
	require.NoError(t, err)

	updated, err := service.AssignVehicle(context.Background(), identity, second.ID, truck)
	require.NoError(t, err)
	require.NotNil(t, updated.TruckID)
	assert.Equal(t, "truck-1", *updated.TruckID)
}

/*
TestAssignVehicle_ActiveTourBlocks verifies a vehicle held by an active tour
rejects further assignment, with the registration number in the message.
*/
func TestAssignVehicle_ActiveTourBlocks(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	first := mustCreate(t, service)
	second := mustCreate(t, service)

	truck := tour.VehicleAssignment{TruckID: tour.PatchField{Set: true, Value: pointer.To("truck-1")}}

	_, err := service.AssignVehicle(context.Background(), identity, first.ID, truck)
	require.NoError(t, err)
	_, err = service.AssignDriver(context.Background(), identity, first.ID, pointer.To("driver-1"))
	require.NoError(t, err)

	_, err = service.AssignVehicle(context.Background(), identity, second.ID, truck)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, "Vehicle ZG-1234-AB is already assigned to an active tour", ae.Message)

	// The trailer axis is independent of the blocked truck axis.
	trailer := tour.VehicleAssignment{TrailerID: tour.PatchField{Set: true, Value: pointer.To("trailer-1")}}
	updated, err := service.AssignVehicle(context.Background(), identity, second.ID, trailer)
	require.NoError(t, err)
	require.NotNil(t, updated.TrailerID)
	assert.Equal(t, "trailer-1", *updated.TrailerID)
}

// # Grouping

/*
TestPatchTour_Parenting covers the one-level group rules.
*/
func TestPatchTour_Parenting(t *testing.T) {
	service, repo := newTourService()
	identity := dispatcher()
	parent := mustCreate(t, service)
	child := mustCreate(t, service)
	grandchild := mustCreate(t, service)

	attach := func(id, parentID string) error {
		_, err := service.PatchTour(context.Background(), identity, id, tour.PatchInput{
			ParentTourID: tour.PatchField{Set: true, Value: &parentID},
		})
		return err
	}

	// 1. Self-parenting is rejected.
	err := attach(parent.ID, parent.ID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// 2. A valid attach works.
	require.NoError(t, attach(child.ID, parent.ID))

	// 3. Groups are one level deep: a child cannot be a parent.
	err = attach(grandchild.ID, child.ID)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// 4. A completed parent cannot be extended.
	require.NoError(t, repo.MarkCompleted(context.Background(), "org-1", []string{parent.ID, child.ID}, time.Now()))
	err = attach(grandchild.ID, parent.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	// 5. Detaching always works.
	patched, err := service.PatchTour(context.Background(), identity, child.ID, tour.PatchInput{
		ParentTourID: tour.PatchField{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, patched.ParentTourID)
}

/*
TestGetTour_AttachesChildren verifies a parent read includes its group members.
*/
func TestGetTour_AttachesChildren(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	parent := mustCreate(t, service)
	child := mustCreate(t, service)

	_, err := service.PatchTour(context.Background(), identity, child.ID, tour.PatchInput{
		ParentTourID: tour.PatchField{Set: true, Value: &parent.ID},
	})
	require.NoError(t, err)

	fetched, err := service.GetTour(context.Background(), identity, parent.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Children, 1)
	assert.Equal(t, child.ID, fetched.Children[0].ID)

	fetchedChild, err := service.GetTour(context.Background(), identity, child.ID)
	require.NoError(t, err)
	assert.Empty(t, fetchedChild.Children)
}

// # Completion

/*
TestCompleteTour_RequiresDriver verifies a standalone tour without a driver
cannot complete.
*/
func TestCompleteTour_RequiresDriver(t *testing.T) {
	service, _ := newTourService()
	created := mustCreate(t, service)

	_, err := service.CompleteTour(context.Background(), dispatcher(), created.ID)

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "driver_id", ae.Details[0].Field)
}

/*
TestCompleteTour_Standalone verifies completion keeps the resources attached
for history while freeing the driver for new assignments.
*/
func TestCompleteTour_Standalone(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	created := mustCreate(t, service)

	_, err := service.AssignDriver(context.Background(), identity, created.ID, pointer.To("driver-1"))
	require.NoError(t, err)

	completed, err := service.CompleteTour(context.Background(), identity, created.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	require.NotNil(t, completed.CompletedAt)
	require.NotNil(t, completed.DriverID)
	assert.Equal(t, "driver-1", *completed.DriverID)
	assert.False(t, completed.IsActive())

	// The driver no longer blocks new assignments.
	next := mustCreate(t, service)
	assigned, err := service.AssignDriver(context.Background(), identity, next.ID, pointer.To("driver-1"))
	require.NoError(t, err)
	require.NotNil(t, assigned.DriverID)
}

/*
TestCompleteTour_ParentCascades verifies completing a parent completes the
whole group and releases every member's resources immediately.
*/
func TestCompleteTour_ParentCascades(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	parent := mustCreate(t, service)
	childA := mustCreate(t, service)
	childB := mustCreate(t, service)

	for _, id := range []string{childA.ID, childB.ID} {
		_, err := service.PatchTour(context.Background(), identity, id, tour.PatchInput{
			ParentTourID: tour.PatchField{Set: true, Value: &parent.ID},
		})
		require.NoError(t, err)
	}
	_, err := service.AssignDriver(context.Background(), identity, parent.ID, pointer.To("driver-1"))
	require.NoError(t, err)

	completed, err := service.CompleteTour(context.Background(), identity, parent.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	assert.Nil(t, completed.DriverID)

	for _, id := range []string{childA.ID, childB.ID} {
		member, err := service.GetTour(context.Background(), identity, id)
		require.NoError(t, err)
		assert.True(t, member.IsCompleted)
		assert.Nil(t, member.DriverID)
		assert.Nil(t, member.TruckID)
	}
}

/*
TestCompleteTour_ChildKeepsGroupOpen verifies completing one child releases
nothing while other members are still open.
*/
func TestCompleteTour_ChildKeepsGroupOpen(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	parent := mustCreate(t, service)
	child := mustCreate(t, service)

	_, err := service.PatchTour(context.Background(), identity, child.ID, tour.PatchInput{
		ParentTourID: tour.PatchField{Set: true, Value: &parent.ID},
	})
	require.NoError(t, err)
	_, err = service.AssignDriver(context.Background(), identity, parent.ID, pointer.To("driver-1"))
	require.NoError(t, err)

	completed, err := service.CompleteTour(context.Background(), identity, child.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)

	// The parent is still open, so the group holds on to its driver.
	fetched, err := service.GetTour(context.Background(), identity, parent.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsCompleted)
	require.NotNil(t, fetched.DriverID)
}

/*
TestCompleteTour_LastChildReleasesGroup verifies the group's resources are
released the moment its last open member completes.
*/
func TestCompleteTour_LastChildReleasesGroup(t *testing.T) {
	service, repo := newTourService()
	identity := dispatcher()
	parent := mustCreate(t, service)
	childA := mustCreate(t, service)
	childB := mustCreate(t, service)

	for _, id := range []string{childA.ID, childB.ID} {
		_, err := service.PatchTour(context.Background(), identity, id, tour.PatchInput{
			ParentTourID: tour.PatchField{Set: true, Value: &parent.ID},
		})
		require.NoError(t, err)
	}
	_, err := service.AssignDriver(context.Background(), identity, childB.ID, pointer.To("driver-2"))
	require.NoError(t, err)

	// Parent and first child already done; childB is the last open member.
	require.NoError(t, repo.MarkCompleted(context.Background(), "org-1", []string{parent.ID, childA.ID}, time.Now()))

	completed, err := service.CompleteTour(context.Background(), identity, childB.ID)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted)
	assert.Nil(t, completed.DriverID)

	fetched, err := service.GetTour(context.Background(), identity, parent.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.DriverID)
}

// # Invoicing

/*
TestInvoiceTour verifies the completion gate and the reversible unmark.
*/
func TestInvoiceTour(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	created := mustCreate(t, service)

	// 1. A tour that is not completed cannot be invoiced.
	_, err := service.InvoiceTour(context.Background(), identity, created.ID, tour.InvoiceInput{
		IsInvoiced:    true,
		InvoiceNumber: pointer.To("2026/001"),
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.AssignDriver(context.Background(), identity, created.ID, pointer.To("driver-1"))
	require.NoError(t, err)
	_, err = service.CompleteTour(context.Background(), identity, created.ID)
	require.NoError(t, err)

	// 2. Completed tours invoice with a number.
	invoiced, err := service.InvoiceTour(context.Background(), identity, created.ID, tour.InvoiceInput{
		IsInvoiced:    true,
		InvoiceNumber: pointer.To("2026/001"),
	})
	require.NoError(t, err)
	assert.True(t, invoiced.IsInvoiced)
	require.NotNil(t, invoiced.InvoiceNumber)
	assert.Equal(t, "2026/001", *invoiced.InvoiceNumber)

	// 3. Unmarking clears the stored number.
	unmarked, err := service.InvoiceTour(context.Background(), identity, created.ID, tour.InvoiceInput{
		IsInvoiced: false,
	})
	require.NoError(t, err)
	assert.False(t, unmarked.IsInvoiced)
	assert.Nil(t, unmarked.InvoiceNumber)
}

// # Full Edit

/*
TestUpdateTour_ReplacesStops verifies a full edit swaps the entire stop set
and leaves lifecycle state untouched.
*/
func TestUpdateTour_ReplacesStops(t *testing.T) {
	service, _ := newTourService()
	identity := dispatcher()
	created := mustCreate(t, service)

	_, err := service.AssignDriver(context.Background(), identity, created.ID, pointer.To("driver-1"))
	require.NoError(t, err)

	input := validInput()
	input.Company = "Pannonia Freight"
	input.Stops = []tour.StopInput{
		{Location: "Vienna"},
		{Location: "Linz"},
		{Location: "Frankfurt"},
	}

	updated, err := service.UpdateTour(context.Background(), identity, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Pannonia Freight", updated.Company)
	require.Len(t, updated.Stops, 3)
	for index, location := range []string{"Vienna", "Linz", "Frankfurt"} {
		assert.Equal(t, index, updated.Stops[index].Position)
		assert.Equal(t, location, updated.Stops[index].Location)
	}

	// Assignment survived the contract edit.
	fetched, err := service.GetTour(context.Background(), identity, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.DriverID)
	require.Len(t, fetched.Stops, 3)
}

// # Tenancy

/*
TestTour_CrossTenantIsNotFound verifies another organization's tours are
indistinguishable from missing ones.
*/
func TestTour_CrossTenantIsNotFound(t *testing.T) {
	service, _ := newTourService()
	created := mustCreate(t, service)

	intruder := &sec.Identity{
		UserID:         "user-9",
		Role:           sec.RoleDirector,
		OrganizationID: "org-2",
	}

	_, err := service.GetTour(context.Background(), intruder, created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	err = service.DeleteTour(context.Background(), intruder, created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
