package workload_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rgoodall/duebook/internal/workflow"
	"github.com/rgoodall/duebook/internal/workload"
)

func TestService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := workload.NewMockRepository(ctrl)
	repo.EXPECT().ListItems(gomock.Any()).Return([]workload.Item{
		{
			ClientID:         uuid.New(),
			Line:             workload.LineVAT,
			HasWorkflow:      true,
			Stage:            workflow.StageReturnDrafted,
			WorkflowAssignee: &alice,
		},
	}, nil)

	svc := workload.NewService(repo)

	result, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, workload.Counts{Active: 1}, result[alice][workload.LineVAT])
}

func TestService_ForUser(t *testing.T) {
	t.Run("UserWithNoItemsGetsEmptySummary", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		repo := workload.NewMockRepository(ctrl)
		repo.EXPECT().ListItems(gomock.Any()).Return(nil, nil)

		svc := workload.NewService(repo)

		summary, err := svc.ForUser(context.Background(), bob)
		require.NoError(t, err)

		assert.NotNil(t, summary)
		assert.Empty(t, summary)
	})

	t.Run("RepositoryErrorPropagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		repo := workload.NewMockRepository(ctrl)
		repo.EXPECT().ListItems(gomock.Any()).Return(nil, errors.New("connection reset"))

		svc := workload.NewService(repo)

		_, err := svc.ForUser(context.Background(), bob)
		require.Error(t, err)
	})
}
