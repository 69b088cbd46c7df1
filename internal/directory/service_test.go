package directory

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gotest.tools/v3/assert"

	"clinical-scribe-server/internal/models"
)

// newTestService opens an in-memory store with the real schema. Connections
// are pinned to one so the in-memory database survives pooling.
func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NilError(t, err)

	sqlDB, err := db.DB()
	assert.NilError(t, err)
	sqlDB.SetMaxOpenConns(1)

	assert.NilError(t, models.Migrate(db))
	return NewService(db)
}

func TestCreatePatientTrimsNameAndOmitsEmptyOptionals(t *testing.T) {
	svc := newTestService(t)

	patient, err := svc.CreatePatient("user-a", CreatePatientInput{
		Name: "  Jane Doe  ",
		MRN:  "   ",
	})
	assert.NilError(t, err)

	assert.Equal(t, patient.Name, "Jane Doe")
	assert.Assert(t, patient.MRN == nil)
	assert.Assert(t, patient.DateOfBirth == nil)
	assert.Assert(t, patient.Gender == nil)
	assert.Equal(t, patient.Status, models.PatientActive)
	assert.Assert(t, patient.ID != "")
	assert.Assert(t, !patient.CreatedAt.IsZero())
}

func TestCreatePatientRequiresName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestCreatePatientRejectsBadOptionalValues(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Jane", DateOfBirth: "02/04/1980"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.CreatePatient("user-a", CreatePatientInput{Name: "Jane", Gender: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidGender)
}

func TestGetPatientCrossOwnerReadsAsNotFound(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreatePatient("user-b", CreatePatientInput{Name: "Jane Doe"})
	assert.NilError(t, err)

	_, err = svc.GetPatient("user-a", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The actual owner still sees it.
	got, err := svc.GetPatient("user-b", created.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.ID, created.ID)
}

func TestGetPatientsStatusFilterExcludesDeactivated(t *testing.T) {
	svc := newTestService(t)

	keep, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Keep"})
	assert.NilError(t, err)
	gone, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Gone"})
	assert.NilError(t, err)

	_, err = svc.DeactivatePatient("user-a", gone.ID)
	assert.NilError(t, err)

	active, err := svc.GetPatients("user-a", ListFilter{Status: models.PatientActive})
	assert.NilError(t, err)
	assert.Equal(t, len(active), 1)
	assert.Equal(t, active[0].ID, keep.ID)

	inactive, err := svc.GetPatients("user-a", ListFilter{Status: models.PatientInactive})
	assert.NilError(t, err)
	assert.Equal(t, len(inactive), 1)
	assert.Equal(t, inactive[0].ID, gone.ID)
}

func TestGetPatientsSortsByName(t *testing.T) {
	svc := newTestService(t)

	for _, name := range []string{"Charlie", "Alice", "Bob"} {
		_, err := svc.CreatePatient("user-a", CreatePatientInput{Name: name})
		assert.NilError(t, err)
	}

	asc, err := svc.GetPatients("user-a", ListFilter{SortBy: "name", SortOrder: "asc"})
	assert.NilError(t, err)
	assert.Equal(t, asc[0].Name, "Alice")
	assert.Equal(t, asc[2].Name, "Charlie")

	desc, err := svc.GetPatients("user-a", ListFilter{SortBy: "name", SortOrder: "desc"})
	assert.NilError(t, err)
	assert.Equal(t, desc[0].Name, "Charlie")
}

func TestGetPatientsSearchMatchesNameAndMRN(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Jane Doe", MRN: "ABC-100"})
	assert.NilError(t, err)
	_, err = svc.CreatePatient("user-a", CreatePatientInput{Name: "John Roe", MRN: "XYZ-200"})
	assert.NilError(t, err)

	byName, err := svc.GetPatients("user-a", ListFilter{Search: "jane"})
	assert.NilError(t, err)
	assert.Equal(t, len(byName), 1)
	assert.Equal(t, byName[0].Name, "Jane Doe")

	byMRN, err := svc.GetPatients("user-a", ListFilter{Search: "xyz"})
	assert.NilError(t, err)
	assert.Equal(t, len(byMRN), 1)
	assert.Equal(t, byMRN[0].Name, "John Roe")
}

func TestGetPatientsNeverLeaksOtherOwners(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Mine"})
	assert.NilError(t, err)
	_, err = svc.CreatePatient("user-b", CreatePatientInput{Name: "Theirs"})
	assert.NilError(t, err)

	patients, err := svc.GetPatients("user-a", ListFilter{})
	assert.NilError(t, err)
	assert.Equal(t, len(patients), 1)
	assert.Equal(t, patients[0].Name, "Mine")
}

func TestUpdatePatientOmittedFieldsStayUnchanged(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreatePatient("user-a", CreatePatientInput{
		Name: "Jane Doe", MRN: "ABC-100", Gender: "female",
	})
	assert.NilError(t, err)

	updated, err := svc.UpdatePatient("user-a", created.ID, UpdatePatientInput{
		Name: Set("Jane Q. Doe"),
	})
	assert.NilError(t, err)

	assert.Equal(t, updated.Name, "Jane Q. Doe")
	assert.Assert(t, updated.MRN != nil)
	assert.Equal(t, *updated.MRN, "ABC-100")
	assert.Assert(t, updated.Gender != nil)
}

func TestUpdatePatientExplicitNullClearsOptional(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreatePatient("user-a", CreatePatientInput{
		Name: "Jane Doe", MRN: "ABC-100", DateOfBirth: "1980-04-02",
	})
	assert.NilError(t, err)

	updated, err := svc.UpdatePatient("user-a", created.ID, UpdatePatientInput{
		MRN:         Clear[string](),
		DateOfBirth: Clear[string](),
	})
	assert.NilError(t, err)

	assert.Assert(t, updated.MRN == nil)
	assert.Assert(t, updated.DateOfBirth == nil)
	assert.Equal(t, updated.Name, "Jane Doe")
}

func TestUpdatePatientNameCannotBeCleared(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Jane Doe"})
	assert.NilError(t, err)

	_, err = svc.UpdatePatient("user-a", created.ID, UpdatePatientInput{Name: Clear[string]()})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.UpdatePatient("user-a", created.ID, UpdatePatientInput{Name: Set("   ")})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUpdatePatientCrossOwnerIsNotFound(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreatePatient("user-b", CreatePatientInput{Name: "Jane Doe"})
	assert.NilError(t, err)

	_, err = svc.UpdatePatient("user-a", created.ID, UpdatePatientInput{Name: Set("Hijacked")})
	assert.ErrorIs(t, err, ErrNotFound)

	unchanged, err := svc.GetPatient("user-b", created.ID)
	assert.NilError(t, err)
	assert.Equal(t, unchanged.Name, "Jane Doe")
}

func TestDeactivateReactivateRoundTrip(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Jane Doe"})
	assert.NilError(t, err)

	deactivated, err := svc.DeactivatePatient("user-a", created.ID)
	assert.NilError(t, err)
	assert.Equal(t, deactivated.Status, models.PatientInactive)

	reactivated, err := svc.ReactivatePatient("user-a", created.ID)
	assert.NilError(t, err)
	assert.Equal(t, reactivated.Status, models.PatientActive)
}

func TestSearchPatientsHonorsMaxResults(t *testing.T) {
	svc := newTestService(t)

	for _, name := range []string{"Smith One", "Smith Two", "Smith Three"} {
		_, err := svc.CreatePatient("user-a", CreatePatientInput{Name: name})
		assert.NilError(t, err)
	}

	results, err := svc.SearchPatients("user-a", "smith", 2)
	assert.NilError(t, err)
	assert.Equal(t, len(results), 2)

	all, err := svc.SearchPatients("user-a", "smith", 0)
	assert.NilError(t, err)
	assert.Equal(t, len(all), 3)
}

func TestSearchPatientsIsCaseInsensitive(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePatient("user-a", CreatePatientInput{Name: "Jane Doe", MRN: "abc-100"})
	assert.NilError(t, err)

	results, err := svc.SearchPatients("user-a", "ABC", 10)
	assert.NilError(t, err)
	assert.Equal(t, len(results), 1)
}
