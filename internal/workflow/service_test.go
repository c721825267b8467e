package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rgoodall/duebook/internal/workflow"
)

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func testKey() workflow.Key {
	return workflow.Key{
		ClientID: uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff"),
		Type:     workflow.TypeVAT,
		PeriodID: "2025-05",
	}
}

func testPeriod(stage workflow.Stage) *workflow.Period {
	key := testKey()

	return &workflow.Period{
		ID:             uuid.MustParse("a81bc81b-dead-4e5d-abff-90865d1e13b1"),
		ClientID:       key.ClientID,
		Type:           key.Type,
		PeriodID:       key.PeriodID,
		PeriodStart:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC),
		FilingDue:      time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		CurrentStage:   stage,
		StageEnteredAt: testNow.AddDate(0, 0, -4),
	}
}

func TestService_GetOrCreate(t *testing.T) {
	t.Run("ExistingReturnedAsIs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := workflow.NewMockRepository(ctrl)
		existing := testPeriod(workflow.StageWorkInProgress)

		repo.EXPECT().GetPeriod(gomock.Any(), testKey()).Return(existing, nil)

		svc := workflow.NewService(repo)
		got, err := svc.GetOrCreate(context.Background(), workflow.CreateParams{Key: testKey(), Now: testNow})

		require.NoError(t, err)
		assert.Same(t, existing, got)
	})

	t.Run("CreatedLazilyInInitialStage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := workflow.NewMockRepository(ctrl)

		repo.EXPECT().GetPeriod(gomock.Any(), testKey()).Return(nil, workflow.ErrNotFound)
		repo.EXPECT().
			CreatePeriod(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *workflow.Period) error {
				p.ID = uuid.New()
				return nil
			})

		svc := workflow.NewService(repo)
		got, err := svc.GetOrCreate(context.Background(), workflow.CreateParams{
			Key:         testKey(),
			PeriodStart: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC),
			FilingDue:   time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
			Now:         testNow,
		})

		require.NoError(t, err)
		assert.Equal(t, workflow.StageNotStarted, got.CurrentStage)
		assert.False(t, got.IsCompleted)
		assert.Equal(t, "2025-05", got.PeriodID)
	})
}

func TestService_Transition(t *testing.T) {
	type testCase struct {
		name      string
		stored    *workflow.Period
		params    workflow.TransitionParams
		setupTx   func(tx *workflow.MockTransitionTx, stored *workflow.Period)
		wantErr   error
		wantStage workflow.Stage
	}

	forwardParams := func(to workflow.Stage, confirm bool) workflow.TransitionParams {
		return workflow.TransitionParams{
			Key:         testKey(),
			ToStage:     to,
			ConfirmSkip: confirm,
			ActorID:     uuid.New(),
			Now:         testNow,
		}
	}

	tests := []testCase{
		{
			name:   "ForwardStepAccepted",
			stored: testPeriod(workflow.StageChaseStarted),
			params: forwardParams(workflow.StagePaperworkReceived, false),
			setupTx: func(tx *workflow.MockTransitionTx, stored *workflow.Period) {
				tx.EXPECT().UpdatePeriod(gomock.Any(), stored).Return(nil)
				tx.EXPECT().AppendHistory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, entry *workflow.HistoryEntry) error {
						assert.Equal(t, workflow.StageChaseStarted, entry.FromStage)
						assert.Equal(t, workflow.StagePaperworkReceived, entry.ToStage)
						assert.Equal(t, 4, entry.DaysInPreviousStage)
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
			},
			wantStage: workflow.StagePaperworkReceived,
		},
		{
			name:    "SkipWithoutConfirmRefused",
			stored:  testPeriod(workflow.StageChaseStarted),
			params:  forwardParams(workflow.StageReturnDrafted, false),
			wantErr: workflow.ErrSkipNeedsConfirm,
		},
		{
			name:   "ConfirmedSkipApplied",
			stored: testPeriod(workflow.StageChaseStarted),
			params: forwardParams(workflow.StageReturnDrafted, true),
			setupTx: func(tx *workflow.MockTransitionTx, stored *workflow.Period) {
				tx.EXPECT().UpdatePeriod(gomock.Any(), stored).Return(nil)
				tx.EXPECT().AppendHistory(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantStage: workflow.StageReturnDrafted,
		},
		{
			name:    "IllegalRegressionRefused",
			stored:  testPeriod(workflow.StageSentToClient),
			params:  forwardParams(workflow.StagePaperworkReceived, true),
			wantErr: workflow.ErrStageNotAllowed,
		},
		{
			name:      "SameStageNoOp",
			stored:    testPeriod(workflow.StageWorkInProgress),
			params:    forwardParams(workflow.StageWorkInProgress, false),
			wantStage: workflow.StageWorkInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := workflow.NewMockRepository(ctrl)
			tx := workflow.NewMockTransitionTx(ctrl)

			repo.EXPECT().BeginTransition(gomock.Any()).Return(tx, nil)
			tx.EXPECT().GetPeriodForUpdate(gomock.Any(), tt.params.Key).Return(tt.stored, nil)
			tx.EXPECT().Rollback().Return(nil)

			if tt.setupTx != nil {
				tt.setupTx(tx, tt.stored)
			}

			svc := workflow.NewService(repo)
			result, err := svc.Transition(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStage, result.Period.CurrentStage)
		})
	}

	t.Run("CompletedPeriodBlocked", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := workflow.NewMockRepository(ctrl)
		tx := workflow.NewMockTransitionTx(ctrl)

		stored := testPeriod(workflow.StageFiledToHMRC)
		stored.IsCompleted = true

		repo.EXPECT().BeginTransition(gomock.Any()).Return(tx, nil)
		tx.EXPECT().GetPeriodForUpdate(gomock.Any(), testKey()).Return(stored, nil)
		tx.EXPECT().Rollback().Return(nil)

		svc := workflow.NewService(repo)
		_, err := svc.Transition(context.Background(), forwardParams(workflow.StageWorkInProgress, false))

		assert.ErrorIs(t, err, workflow.ErrCompleted)
	})

	t.Run("TerminalStageCompletesPeriod", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := workflow.NewMockRepository(ctrl)
		tx := workflow.NewMockTransitionTx(ctrl)

		stored := testPeriod(workflow.StageReadyToFile)

		repo.EXPECT().BeginTransition(gomock.Any()).Return(tx, nil)
		tx.EXPECT().GetPeriodForUpdate(gomock.Any(), testKey()).Return(stored, nil)
		tx.EXPECT().UpdatePeriod(gomock.Any(), stored).Return(nil)
		tx.EXPECT().AppendHistory(gomock.Any(), gomock.Any()).Return(nil)
		tx.EXPECT().Commit().Return(nil)
		tx.EXPECT().Rollback().Return(nil)

		svc := workflow.NewService(repo)
		result, err := svc.Transition(context.Background(), forwardParams(workflow.StageFiledToHMRC, false))

		require.NoError(t, err)
		assert.True(t, result.Period.IsCompleted)
		require.NotNil(t, result.Period.Milestones.FiledAt)
		assert.Equal(t, testNow, *result.Period.Milestones.FiledAt)
	})
}

func TestMilestones_FirstWriteWins(t *testing.T) {
	var m workflow.Milestones

	first := testNow
	m.Stamp(workflow.StagePaperworkReceived, first)

	require.NotNil(t, m.PaperworkReceivedAt)
	assert.Equal(t, first, *m.PaperworkReceivedAt)

	// A later pass through the same stage must not move the timestamp.
	m.Stamp(workflow.StagePaperworkReceived, first.AddDate(0, 0, 10))
	assert.Equal(t, first, *m.PaperworkReceivedAt)

	// Stages without a named milestone stamp nothing.
	m.Stamp(workflow.StageQueriesResolved, first)
	assert.Nil(t, m.WorkStartedAt)
}
