package admin

import (
	"testing"
	"time"

	"courier-booking/models/shipment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatusRequestValidate(t *testing.T) {
	r := UpdateStatusRequest{Status: shipment.StageOutForDelivery, Location: "  Delhi "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "Delhi", r.Location)

	assert.Error(t, (&UpdateStatusRequest{}).Validate())
	assert.Error(t, (&UpdateStatusRequest{Status: "Lost"}).Validate())
}

func TestListShipmentsQueryFilter(t *testing.T) {
	f, err := ListShipmentsQuery{Page: 2, Limit: 5, Q: " pune ", Status: "In Transit", StartDate: "2026-01-01", EndDate: "2026-01-31"}.Filter()
	require.NoError(t, err)

	assert.Equal(t, 2, f.Page)
	assert.Equal(t, "pune", f.Query)
	assert.Equal(t, shipment.StageInTransit, f.Stage)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, 2026, f.To.Year())
	assert.Equal(t, time.January, f.To.Month())
	assert.Equal(t, 31, f.To.Day())
	assert.Equal(t, 23, f.To.Hour())

	f, err = ListShipmentsQuery{Status: "all"}.Filter()
	require.NoError(t, err)
	assert.Empty(t, f.Stage)
	assert.Nil(t, f.From)

	_, err = ListShipmentsQuery{Status: "Lost"}.Filter()
	assert.Error(t, err)
	_, err = ListShipmentsQuery{StartDate: "01/02/2026"}.Filter()
	assert.Error(t, err)
	assert.Error(t, ListShipmentsQuery{StartDate: "2026-02-01", EndDate: "2026-01-01"}.Validate())
}
