package leadform

import (
	"context"
	"errors"
	"testing"

	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Capture(ctx context.Context, lead models.Lead) (models.Lead, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(models.Lead), args.Error(1)
}

func validFields() Fields {
	return Fields{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "(555) 123-4567",
		ProjectType: "Kitchen",
		City:        "Austin",
		Timeline:    "1-3 months",
		Message:     "Looking for a remodel",
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{phone: "5551234567", want: true},
		{phone: "(555) 123-4567", want: true},
		{phone: "555.123.4567", want: true},
		{phone: "1-555-123-4567", want: true},
		{phone: "+15551234567", want: true},
		{phone: "+44 20 7946 0958", want: true},
		{phone: "", want: false},
		{phone: "12345", want: false},
		{phone: "2-555-123-4567", want: false},
		{phone: "555-CALL-NOW", want: false},
		{phone: "+0123456789", want: false},
		{phone: "+1234567890123456", want: false},
		{phone: "٥٥٥١٢٣٤٥٦٧", want: false},
		{phone: "+４４ ２０ ７９４６ ０９５８", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestForm_AdvanceRequiresValidStep(t *testing.T) {
	f := New(NewValidator())
	f.Fields.Name = "J"
	f.Fields.Email = "not-an-email"

	err := f.Advance()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepContact, verr.Step)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "phone")
	assert.Equal(t, StepContact, f.Step())
	assert.Equal(t, err, f.Err())
}

func TestForm_AdvanceAndBack(t *testing.T) {
	f := New(NewValidator())
	f.Fields = validFields()

	require.NoError(t, f.Advance())
	assert.Equal(t, StepProject, f.Step())
	require.NoError(t, f.Advance())
	assert.Equal(t, StepDetails, f.Step())
	assert.ErrorIs(t, f.Advance(), ErrLastStep)

	f.Back()
	f.Back()
	f.Back()
	assert.Equal(t, StepContact, f.Step())
	assert.Equal(t, "Jane Doe", f.Fields.Name, "going back keeps entered data")
}

func TestForm_ProjectStepIsOptional(t *testing.T) {
	f := Restore(NewValidator(), Fields{Name: "Jane", Email: "j@example.com", Phone: "5551234567"}, StepProject)

	assert.NoError(t, f.Advance())
	assert.Equal(t, StepDetails, f.Step())
}

func TestForm_SubmitSuccessResets(t *testing.T) {
	ctx := context.Background()
	sub := new(MockSubmitter)
	f := Restore(NewValidator(), validFields(), StepDetails)

	saved := validFields().Lead()
	saved.ID = uuid.New()
	sub.On("Capture", ctx, mock.MatchedBy(func(l models.Lead) bool {
		return l.Name == "Jane Doe" && l.FormSource == DefaultFormSource
	})).Return(saved, nil).Once()

	lead, err := f.Submit(ctx, sub)

	require.NoError(t, err)
	assert.Equal(t, saved.ID, lead.ID)
	assert.True(t, f.Submitted())
	assert.Equal(t, Fields{}, f.Fields)
	assert.Equal(t, StepContact, f.Step())

	_, err = f.Submit(ctx, sub)
	assert.ErrorIs(t, err, ErrSubmitted)
	sub.AssertExpectations(t)
}

func TestForm_SubmitFailureKeepsData(t *testing.T) {
	ctx := context.Background()
	sub := new(MockSubmitter)
	f := Restore(NewValidator(), validFields(), StepDetails)
	boom := errors.New("db down")

	sub.On("Capture", ctx, mock.Anything).Return(models.Lead{}, boom).Once()

	_, err := f.Submit(ctx, sub)

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, f.Err(), boom)
	assert.False(t, f.Submitted())
	assert.Equal(t, validFields(), f.Fields)
	assert.Equal(t, StepDetails, f.Step())
	sub.AssertExpectations(t)
}

func TestForm_SubmitRevalidatesEarlierSteps(t *testing.T) {
	sub := new(MockSubmitter)
	fields := validFields()
	fields.Phone = "123"
	f := Restore(NewValidator(), fields, StepDetails)

	_, err := f.Submit(context.Background(), sub)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepContact, f.Step())
	assert.Equal(t, "must be a valid phone number", verr.Fields["phone"])
	sub.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
}

func TestParseStep(t *testing.T) {
	for _, s := range Steps() {
		got, err := ParseStep(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStep("payment")
	assert.Error(t, err)
}
