package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/ct"
	"github.com/rgoodall/duebook/internal/dates"
)

var (
	testNow   = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	testActor = uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func limitedClient() *client.Client {
	lastAccounts := date(2024, time.September, 30)
	group := dates.QuarterGroupFebMayAugNov

	return &client.Client{
		ID:                   uuid.New(),
		Name:                 "Brightwell Joinery Ltd",
		Type:                 client.TypeLimited,
		CompanyNumber:        new("12345678"),
		LastAccountsMadeUpTo: &lastAccounts,
		AccountingRefDay:     30,
		AccountingRefMonth:   time.September,
		VATEnabled:           true,
		VATQuarterGroup:      &group,
	}
}

func TestClient_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, limitedClient().Validate())
	})

	t.Run("MissingName", func(t *testing.T) {
		c := limitedClient()
		c.Name = ""

		assert.ErrorIs(t, c.Validate(), client.ErrInvalid)
	})

	t.Run("UnknownType", func(t *testing.T) {
		c := limitedClient()
		c.Type = "llc"

		assert.ErrorIs(t, c.Validate(), client.ErrInvalid)
	})

	t.Run("BadAccountingRefDay", func(t *testing.T) {
		c := limitedClient()
		c.AccountingRefDay = 32

		assert.ErrorIs(t, c.Validate(), client.ErrInvalid)
	})

	t.Run("VATWithoutQuarterGroup", func(t *testing.T) {
		c := limitedClient()
		c.VATQuarterGroup = nil

		assert.ErrorIs(t, c.Validate(), client.ErrInvalid)
	})
}

func TestService_RefreshDeadlines(t *testing.T) {
	t.Run("FullPipeline", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		c := limitedClient()

		repo := client.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), c.ID).Return(c, nil)
		repo.EXPECT().UpdateDeadlines(gomock.Any(), c.ID, gomock.AssignableToTypeOf(client.Deadlines{})).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, d client.Deadlines) error {
				// Last accounts 2024-09-30 + 1 year.
				require.NotNil(t, d.YearEnd)
				assert.Equal(t, date(2025, time.September, 30), *d.YearEnd)

				require.NotNil(t, d.AccountsDue)
				assert.Equal(t, date(2026, time.June, 30), *d.AccountsDue)

				// Group {2,5,8,11} seen from mid-June: quarter ends 31 Aug.
				require.NotNil(t, d.VATQuarterEnd)
				assert.Equal(t, date(2025, time.August, 31), *d.VATQuarterEnd)

				require.NotNil(t, d.VATFilingDue)
				assert.Equal(t, date(2025, time.September, 30), *d.VATFilingDue)

				return nil
			})

		tracker := client.NewMockCTTracker(ctrl)
		tracker.EXPECT().
			RefreshDue(gomock.Any(), c.ID, date(2025, time.September, 30), true, testActor, testNow).
			Return(ct.Decision{Apply: true, NewDue: date(2026, time.September, 30)}, nil)

		svc := client.NewService(repo, tracker)

		warnings, err := svc.RefreshDeadlines(context.Background(), c.ID, true, testActor, testNow)
		require.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("CTWarningsSurfaced", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		c := limitedClient()
		c.VATEnabled = false
		c.VATQuarterGroup = nil

		repo := client.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), c.ID).Return(c, nil)
		repo.EXPECT().UpdateDeadlines(gomock.Any(), c.ID, gomock.Any()).Return(nil)

		tracker := client.NewMockCTTracker(ctrl)
		tracker.EXPECT().
			RefreshDue(gomock.Any(), c.ID, gomock.Any(), false, testActor, testNow).
			Return(ct.Decision{Warnings: []string{"due date is manually overridden"}}, nil)

		svc := client.NewService(repo, tracker)

		warnings, err := svc.RefreshDeadlines(context.Background(), c.ID, false, testActor, testNow)
		require.NoError(t, err)
		assert.Equal(t, []string{"due date is manually overridden"}, warnings)
	})

	t.Run("UndeterminableYearEndWarnsAndSkipsCT", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		c := limitedClient()
		c.LastAccountsMadeUpTo = nil
		c.IncorporationDate = nil
		c.AccountingRefDay = 0
		c.AccountingRefMonth = 0
		c.VATEnabled = false
		c.VATQuarterGroup = nil

		repo := client.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), c.ID).Return(c, nil)
		repo.EXPECT().UpdateDeadlines(gomock.Any(), c.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, d client.Deadlines) error {
				assert.Nil(t, d.YearEnd)
				assert.Nil(t, d.AccountsDue)
				return nil
			})

		// No CT call expected.
		tracker := client.NewMockCTTracker(ctrl)

		svc := client.NewService(repo, tracker)

		warnings, err := svc.RefreshDeadlines(context.Background(), c.ID, false, testActor, testNow)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "cannot be determined")
	})

	t.Run("SoleTraderSkipsCT", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		c := limitedClient()
		c.Type = client.TypeSoleTrader
		c.VATEnabled = false
		c.VATQuarterGroup = nil

		repo := client.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), c.ID).Return(c, nil)
		repo.EXPECT().UpdateDeadlines(gomock.Any(), c.ID, gomock.Any()).Return(nil)

		tracker := client.NewMockCTTracker(ctrl)

		svc := client.NewService(repo, tracker)

		_, err := svc.RefreshDeadlines(context.Background(), c.ID, false, testActor, testNow)
		require.NoError(t, err)
	})
}

func TestService_Create(t *testing.T) {
	t.Run("InvalidClientNotPersisted", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		repo := client.NewMockRepository(ctrl)
		tracker := client.NewMockCTTracker(ctrl)

		svc := client.NewService(repo, tracker)

		err := svc.Create(context.Background(), &client.Client{Type: client.TypeLimited})
		assert.ErrorIs(t, err, client.ErrInvalid)
	})

	t.Run("ValidClientPersisted", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		c := limitedClient()

		repo := client.NewMockRepository(ctrl)
		repo.EXPECT().Create(gomock.Any(), c).Return(nil)

		tracker := client.NewMockCTTracker(ctrl)

		svc := client.NewService(repo, tracker)

		require.NoError(t, svc.Create(context.Background(), c))
	})
}
