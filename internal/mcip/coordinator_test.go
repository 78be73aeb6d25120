package mcip

import (
	"testing"
	"time"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsLatestPublishedRecord(t *testing.T) {
	c := New()
	defer c.Close()

	rec := contracts.CareRecommendation{Tier: contracts.TierInHome}
	require.NoError(t, c.Publish(ContractCareRecommendation, rec))

	got, ok := c.Get(ContractCareRecommendation)
	require.True(t, ok)
	assert.Equal(t, contracts.TierInHome, got.(contracts.CareRecommendation).Tier)

	rec2 := contracts.CareRecommendation{Tier: contracts.TierAssistedLiving}
	require.NoError(t, c.Publish(ContractCareRecommendation, rec2))
	got2, _ := c.Get(ContractCareRecommendation)
	assert.Equal(t, contracts.TierAssistedLiving, got2.(contracts.CareRecommendation).Tier)
}

func TestSubscribeReceivesFuturePublications(t *testing.T) {
	c := New()
	defer c.Close()

	received := make(chan any, 1)
	c.Subscribe(ContractCareRecommendation, func(rec any) {
		received <- rec
	})

	require.NoError(t, c.Publish(ContractCareRecommendation, contracts.CareRecommendation{Tier: contracts.TierMemoryCare}))

	select {
	case rec := <-received:
		assert.Equal(t, contracts.TierMemoryCare, rec.(contracts.CareRecommendation).Tier)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive publication")
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	c := New()
	require.NoError(t, c.Close())
	err := c.Publish(ContractCareRecommendation, contracts.CareRecommendation{})
	assert.Error(t, err)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	c := New()
	defer c.Close()

	count := 0
	id := c.Subscribe(ContractFinancialProfile, func(any) { count++ })
	require.NoError(t, c.Unsubscribe(ContractFinancialProfile, id))
	require.NoError(t, c.Publish(ContractFinancialProfile, contracts.FinancialProfile{}))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, count)
}
