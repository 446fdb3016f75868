package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distributeaid/shipment-tracker/internal/auth"
	"github.com/distributeaid/shipment-tracker/internal/exports"
	"github.com/distributeaid/shipment-tracker/pkg/db/models"
	"github.com/distributeaid/shipment-tracker/pkg/db/testdb"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/outbox"
	"github.com/distributeaid/shipment-tracker/pkg/types"
)

func TestTokenExpiryJob(t *testing.T) {
	conn := testdb.New(t)
	tokens := auth.NewTokenRepository(conn)
	ctx := context.Background()

	stale, err := tokens.Create(ctx, "old@example.org", "123456")
	require.NoError(t, err)
	require.NoError(t, conn.Model(stale).Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)
	fresh, err := tokens.Create(ctx, "new@example.org", "654321")
	require.NoError(t, err)

	job, err := NewTokenExpiryJob(testLogger(), tokens.ExpireIssuedBefore, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "verification-token-expiry", job.Name())
	require.NoError(t, job.Run(ctx))

	var got models.VerificationToken
	require.NoError(t, conn.First(&got, "id = ?", stale.ID).Error)
	assert.Equal(t, enums.VerificationTokenExpired, got.Status)
	var gotFresh models.VerificationToken
	require.NoError(t, conn.First(&gotFresh, "id = ?", fresh.ID).Error)
	assert.Equal(t, enums.VerificationTokenUnused, gotFresh.Status)
}

func TestExportRetentionJob(t *testing.T) {
	conn := testdb.New(t)
	admin := testdb.CreateUser(t, conn, "admin@example.org", true)
	shipment := testdb.CreateShipment(t, conn, enums.ShipmentStatusOpen)
	repo := exports.NewRepository(conn)
	ctx := context.Background()

	old := &models.ShipmentExport{ShipmentID: shipment.ID, UserAccountID: admin.ID, ContentsCSV: "a"}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, conn.Model(old).Update("created_at", time.Now().UTC().AddDate(0, 0, -91)).Error)
	recent := &models.ShipmentExport{ShipmentID: shipment.ID, UserAccountID: admin.ID, ContentsCSV: "b"}
	require.NoError(t, repo.Create(ctx, recent))

	job, err := NewExportRetentionJob(testLogger(), repo.DeleteCreatedBefore, 90*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, job.Run(ctx))

	var ids []string
	require.NoError(t, conn.Model(&models.ShipmentExport{}).Pluck("id", &ids).Error)
	assert.Equal(t, []string{recent.ID.String()}, ids)
}

func TestOutboxRetentionJob(t *testing.T) {
	conn := testdb.New(t)
	ctx := context.Background()
	longAgo := time.Now().UTC().AddDate(0, 0, -31)
	payload := types.RawJSON(`{"version":1}`)

	rows := []models.OutboxEvent{
		{EventType: enums.EventOfferStatusChanged, AggregateType: enums.AggregateOffer, PublishedAt: &longAgo},
		{EventType: enums.EventOfferStatusChanged, AggregateType: enums.AggregateOffer},
	}
	for i := range rows {
		rows[i].AggregateID = uuid.New()
		rows[i].Payload = payload
		require.NoError(t, conn.Create(&rows[i]).Error)
	}

	job, err := NewOutboxRetentionJob(testLogger(), outbox.NewRepository(conn).DeletePublishedBefore, 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, job.Run(ctx))

	var remaining []models.OutboxEvent
	require.NoError(t, conn.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Nil(t, remaining[0].PublishedAt, "unpublished rows are kept")
}

func TestAgeJobRequiresRepository(t *testing.T) {
	_, err := NewExportRetentionJob(testLogger(), nil, time.Hour)
	assert.Error(t, err)
	_, err = NewTokenExpiryJob(nil, func(context.Context, time.Time) (int64, error) { return 0, nil }, time.Hour)
	assert.Error(t, err)
}
