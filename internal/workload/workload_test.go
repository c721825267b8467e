package workload_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoodall/duebook/internal/workflow"
	"github.com/rgoodall/duebook/internal/workload"
)

var (
	alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bob   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func TestAggregate(t *testing.T) {
	clientA := uuid.New()
	clientB := uuid.New()
	clientC := uuid.New()

	items := []workload.Item{
		// Started VAT work assigned to alice at the workflow level.
		{
			ClientID:         clientA,
			Line:             workload.LineVAT,
			HasWorkflow:      true,
			Stage:            workflow.StageWorkInProgress,
			WorkflowAssignee: &alice,
			ClientAssignee:   &bob,
		},
		// Workflow exists but has not started: inactive for alice.
		{
			ClientID:         clientB,
			Line:             workload.LineVAT,
			HasWorkflow:      true,
			Stage:            workflow.StageNotStarted,
			WorkflowAssignee: &alice,
		},
		// No workflow yet: the client-level fallback counts, inactive.
		{
			ClientID:       clientC,
			Line:           workload.LineLtdAccounts,
			ClientAssignee: &bob,
		},
	}

	result := workload.Aggregate(items)

	require.Contains(t, result, alice)
	require.Contains(t, result, bob)

	assert.Equal(t, workload.Counts{Active: 1, Inactive: 1}, result[alice][workload.LineVAT])
	assert.Equal(t, workload.Counts{Inactive: 1}, result[bob][workload.LineLtdAccounts])

	// The fallback assignee on clientA's VAT line must not be credited:
	// the workflow-level assignment wins.
	assert.Zero(t, result[bob][workload.LineVAT])
}

func TestAggregate_NoDoubleCounting(t *testing.T) {
	clientID := uuid.New()

	workflowItem := workload.Item{
		ClientID:         clientID,
		Line:             workload.LineVAT,
		HasWorkflow:      true,
		Stage:            workflow.StageChaseStarted,
		WorkflowAssignee: &alice,
		ClientAssignee:   &alice,
	}
	fallbackItem := workload.Item{
		ClientID:       clientID,
		Line:           workload.LineVAT,
		ClientAssignee: &alice,
	}

	// Both orders collapse to a single active item.
	for _, items := range [][]workload.Item{
		{workflowItem, fallbackItem},
		{fallbackItem, workflowItem},
	} {
		result := workload.Aggregate(items)

		assert.Equal(t, workload.Counts{Active: 1}, result[alice][workload.LineVAT])
	}
}

func TestAggregate_UnassignedItemsDropped(t *testing.T) {
	items := []workload.Item{
		{ClientID: uuid.New(), Line: workload.LineVAT, HasWorkflow: true, Stage: workflow.StageWorkInProgress},
		{ClientID: uuid.New(), Line: workload.LineContractor},
	}

	assert.Empty(t, workload.Aggregate(items))
}

func TestAggregate_TotalsMatchDistinctItems(t *testing.T) {
	var items []workload.Item

	for range 7 {
		items = append(items, workload.Item{
			ClientID:       uuid.New(),
			Line:           workload.LineNonLtdAccounts,
			ClientAssignee: &alice,
		})
	}

	for range 3 {
		items = append(items, workload.Item{
			ClientID:         uuid.New(),
			Line:             workload.LineNonLtdAccounts,
			HasWorkflow:      true,
			Stage:            workflow.StageQueriesSent,
			WorkflowAssignee: &alice,
		})
	}

	summary := workload.For(items, alice)
	total := summary.Total()

	assert.Equal(t, 3, total.Active)
	assert.Equal(t, 7, total.Inactive)
	assert.Equal(t, 10, total.Active+total.Inactive)
}

func TestAggregate_WorkflowWithoutAssigneeFallsBackToClient(t *testing.T) {
	items := []workload.Item{
		{
			ClientID:       uuid.New(),
			Line:           workload.LineLtdAccounts,
			HasWorkflow:    true,
			Stage:          workflow.StageWorkInProgress,
			ClientAssignee: &bob,
		},
	}

	result := workload.Aggregate(items)

	assert.Equal(t, workload.Counts{Active: 1}, result[bob][workload.LineLtdAccounts])
}
