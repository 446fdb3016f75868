package graph

import (
	"context"
	"encoding/json"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/distributeaid/shipment-tracker/api/middleware"
	"github.com/distributeaid/shipment-tracker/internal/exports"
	"github.com/distributeaid/shipment-tracker/internal/groups"
	"github.com/distributeaid/shipment-tracker/internal/lineitems"
	"github.com/distributeaid/shipment-tracker/internal/offers"
	"github.com/distributeaid/shipment-tracker/internal/pallets"
	"github.com/distributeaid/shipment-tracker/internal/shipments"
	"github.com/distributeaid/shipment-tracker/internal/users"
	pkgAuth "github.com/distributeaid/shipment-tracker/pkg/auth"
	"github.com/distributeaid/shipment-tracker/pkg/db"
	"github.com/distributeaid/shipment-tracker/pkg/db/testdb"
	"github.com/distributeaid/shipment-tracker/pkg/enums"
	"github.com/distributeaid/shipment-tracker/pkg/outbox"
)

type harness struct {
	schema  *graphql.Schema
	conn    *gorm.DB
	admin   pkgAuth.Actor
	captain pkgAuth.Actor
}

func newHarness(t *testing.T) harness {
	t.Helper()
	conn := testdb.New(t)
	client := db.Wrap(conn)
	events := outbox.NewService(outbox.NewRepository(conn), nil)

	groupSvc, err := groups.NewService(groups.NewRepository(conn))
	require.NoError(t, err)
	shipmentSvc, err := shipments.NewService(client, events)
	require.NoError(t, err)
	offerSvc, err := offers.NewService(client, events)
	require.NoError(t, err)
	palletSvc, err := pallets.NewService(client)
	require.NoError(t, err)
	lineItemSvc, err := lineitems.NewService(client)
	require.NoError(t, err)
	exportSvc, err := exports.NewService(client, nil, nil)
	require.NoError(t, err)

	resolver, err := NewResolver(ResolverParams{
		Groups:    groupSvc,
		Shipments: shipmentSvc,
		Offers:    offerSvc,
		Pallets:   palletSvc,
		LineItems: lineItemSvc,
		Exports:   exportSvc,
		Accounts:  users.NewRepository(conn),
	})
	require.NoError(t, err)
	schema, err := NewSchema(resolver)
	require.NoError(t, err)

	admin := testdb.CreateUser(t, conn, "admin@example.org", true)
	captain := testdb.CreateUser(t, conn, "captain@example.org", false)
	return harness{
		schema:  schema,
		conn:    conn,
		admin:   pkgAuth.Actor{UserID: admin.ID, IsAdmin: true},
		captain: pkgAuth.Actor{UserID: captain.ID},
	}
}

func (h harness) exec(t *testing.T, actor *pkgAuth.Actor, query string, vars map[string]interface{}) (map[string]any, []map[string]any) {
	t.Helper()
	ctx := context.Background()
	if actor != nil {
		ctx = middleware.WithActor(ctx, *actor)
	}
	resp := h.schema.Exec(ctx, query, "", vars)

	var data map[string]any
	if len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, &data))
	}
	var errs []map[string]any
	for _, e := range resp.Errors {
		errs = append(errs, map[string]any{"message": e.Message, "extensions": e.Extensions})
	}
	return data, errs
}

func errorCode(t *testing.T, errs []map[string]any) string {
	t.Helper()
	require.NotEmpty(t, errs, "expected a graphql error")
	ext, ok := errs[0]["extensions"].(map[string]interface{})
	require.True(t, ok, "expected extensions on %v", errs[0])
	code, _ := ext["code"].(string)
	return code
}

const addGroupMutation = `mutation($input: GroupCreateInput!) {
  addGroup(input: $input) { id name groupType captain { id isAdmin } primaryLocation { countryCode townCity } }
}`

func groupInput(name, groupType string) map[string]interface{} {
	return map[string]interface{}{
		"input": map[string]interface{}{
			"name":            name,
			"groupType":       groupType,
			"primaryLocation": map[string]interface{}{"countryCode": "FR", "townCity": "Calais"},
			"primaryContact":  map[string]interface{}{"name": "Jo", "email": "jo@example.org"},
		},
	}
}

func TestRequestsWithoutActorAreUnauthenticated(t *testing.T) {
	h := newHarness(t)
	_, errs := h.exec(t, nil, `{ listShipments { id } }`, nil)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, errs))
}

func TestAddGroupAsCaptain(t *testing.T) {
	h := newHarness(t)

	data, errs := h.exec(t, &h.captain, addGroupMutation, groupInput("Calais Kitchen", "SendingGroup"))
	require.Empty(t, errs)
	group := data["addGroup"].(map[string]any)
	assert.Equal(t, "Calais Kitchen", group["name"])
	assert.Equal(t, "SendingGroup", group["groupType"])
	assert.Equal(t, h.captain.UserID.String(), group["captain"].(map[string]any)["id"])

	_, errs = h.exec(t, &h.captain, addGroupMutation, groupInput("Second Kitchen", "SendingGroup"))
	assert.Equal(t, "FORBIDDEN", errorCode(t, errs))

	data, errs = h.exec(t, &h.captain, `{ me { id groupId } }`, nil)
	require.Empty(t, errs)
	assert.Equal(t, group["id"], data["me"].(map[string]any)["groupId"])
}

func TestAddGroupValidation(t *testing.T) {
	h := newHarness(t)

	vars := groupInput("Bad Country", "SendingGroup")
	vars["input"].(map[string]interface{})["primaryLocation"] = map[string]interface{}{"countryCode": "XX", "townCity": "Nowhere"}
	_, errs := h.exec(t, &h.captain, addGroupMutation, vars)
	assert.Equal(t, "BAD_USER_INPUT", errorCode(t, errs))
	details := errs[0]["extensions"].(map[string]interface{})["details"]
	assert.Contains(t, details, "primaryLocation.countryCode")

	_, errs = h.exec(t, &h.captain, addGroupMutation, groupInput("Captain Hub", "DaHub"))
	assert.Equal(t, "FORBIDDEN", errorCode(t, errs))
}

func TestOfferLifecycleThroughGraph(t *testing.T) {
	h := newHarness(t)
	senders := testdb.CreateGroup(t, h.conn, "Senders", enums.GroupTypeSendingGroup, h.captain.UserID)
	shipment := testdb.CreateShipment(t, h.conn, enums.ShipmentStatusOpen)

	data, errs := h.exec(t, &h.captain, `mutation($input: OfferCreateInput!) { addOffer(input: $input) { id status } }`,
		map[string]interface{}{"input": map[string]interface{}{
			"shipmentId":     shipment.ID.String(),
			"sendingGroupId": senders.ID.String(),
		}})
	require.Empty(t, errs)
	offer := data["addOffer"].(map[string]any)
	assert.Equal(t, "Draft", offer["status"])

	data, errs = h.exec(t, &h.captain, `mutation($input: PalletCreateInput!) { addPallet(input: $input) { id paymentStatus lineItems { status category } } }`,
		map[string]interface{}{"input": map[string]interface{}{"offerId": offer["id"], "palletType": "Euro"}})
	require.Empty(t, errs)
	pallet := data["addPallet"].(map[string]any)
	assert.Equal(t, "Uninitiated", pallet["paymentStatus"])
	items := pallet["lineItems"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Unset", items[0].(map[string]any)["category"])

	_, errs = h.exec(t, &h.captain, `mutation($id: ID!) { updatePallet(id: $id, input: {paymentStatus: Paid}) { id } }`,
		map[string]interface{}{"id": pallet["id"]})
	assert.Equal(t, "FORBIDDEN", errorCode(t, errs))

	data, errs = h.exec(t, &h.captain, `mutation($id: ID!) { updateOffer(input: {id: $id, status: Proposed}) { status } }`,
		map[string]interface{}{"id": offer["id"]})
	require.Empty(t, errs)
	assert.Equal(t, "Proposed", data["updateOffer"].(map[string]any)["status"])

	_, errs = h.exec(t, &h.captain, `mutation($id: ID!) { addPallet(input: {offerId: $id, palletType: Standard}) { id } }`,
		map[string]interface{}{"id": offer["id"]})
	assert.Equal(t, "BAD_USER_INPUT", errorCode(t, errs))

	data, errs = h.exec(t, &h.admin, `query($id: ID!) { offer(id: $id) { pallets { palletType lineItems { id } } } }`,
		map[string]interface{}{"id": offer["id"]})
	require.Empty(t, errs)
	pallets := data["offer"].(map[string]any)["pallets"].([]any)
	require.Len(t, pallets, 1)
	assert.Equal(t, "Euro", pallets[0].(map[string]any)["palletType"])
}

func TestUpdateLineItemRejectsOutOfRangeNumbers(t *testing.T) {
	h := newHarness(t)
	senders := testdb.CreateGroup(t, h.conn, "Senders", enums.GroupTypeSendingGroup, h.captain.UserID)
	shipment := testdb.CreateShipment(t, h.conn, enums.ShipmentStatusOpen)
	offer := testdb.CreateOffer(t, h.conn, shipment.ID, senders.ID, enums.OfferStatusDraft)
	pallet := testdb.CreatePallet(t, h.conn, offer.ID)
	item := testdb.CreateLineItem(t, h.conn, pallet.ID)

	const mutation = `mutation($id: ID!, $input: LineItemUpdateInput!) { updateLineItem(id: $id, input: $input) { itemCount containerWeightGrams } }`
	cases := map[string]map[string]interface{}{
		"containerWeightGrams": {"containerWeightGrams": 2000001},
		"itemCount":            {"itemCount": -1},
	}
	for field, input := range cases {
		_, errs := h.exec(t, &h.captain, mutation, map[string]interface{}{"id": item.ID.String(), "input": input})
		assert.Equal(t, "BAD_USER_INPUT", errorCode(t, errs), field)
		details := errs[0]["extensions"].(map[string]interface{})["details"]
		assert.Contains(t, details, field)
	}

	data, errs := h.exec(t, &h.captain, mutation, map[string]interface{}{
		"id":    item.ID.String(),
		"input": map[string]interface{}{"itemCount": 3, "containerWeightGrams": 2000000},
	})
	require.Empty(t, errs)
	updated := data["updateLineItem"].(map[string]any)
	assert.EqualValues(t, 3, updated["itemCount"])
	assert.EqualValues(t, 2000000, updated["containerWeightGrams"])
}

func TestExportShipmentIsAdminOnly(t *testing.T) {
	h := newHarness(t)
	shipment := testdb.CreateShipment(t, h.conn, enums.ShipmentStatusOpen)
	vars := map[string]interface{}{"id": shipment.ID.String()}

	_, errs := h.exec(t, &h.captain, `mutation($id: ID!) { exportShipment(shipmentId: $id) { id } }`, vars)
	assert.Equal(t, "FORBIDDEN", errorCode(t, errs))

	data, errs := h.exec(t, &h.admin, `mutation($id: ID!) { exportShipment(shipmentId: $id) { id downloadPath googleSheetUrl } }`, vars)
	require.Empty(t, errs)
	export := data["exportShipment"].(map[string]any)
	assert.Equal(t, "/shipment-exports/"+export["id"].(string), export["downloadPath"])
	assert.Nil(t, export["googleSheetUrl"])
}

func TestListedExportsCarryCSV(t *testing.T) {
	h := newHarness(t)
	shipment := testdb.CreateShipment(t, h.conn, enums.ShipmentStatusOpen)
	vars := map[string]interface{}{"id": shipment.ID.String()}

	data, errs := h.exec(t, &h.admin, `mutation($id: ID!) { exportShipment(shipmentId: $id) { contentsCsv } }`, vars)
	require.Empty(t, errs)
	created := data["exportShipment"].(map[string]any)["contentsCsv"].(string)
	require.NotEmpty(t, created)

	data, errs = h.exec(t, &h.admin, `query($id: ID!) { listShipmentExports(shipmentId: $id) { contentsCsv } }`, vars)
	require.Empty(t, errs)
	list := data["listShipmentExports"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0].(map[string]any)["contentsCsv"])
}

func TestMalformedIDIsBadUserInput(t *testing.T) {
	h := newHarness(t)
	_, errs := h.exec(t, &h.admin, `{ shipment(id: "nope") { id } }`, nil)
	assert.Equal(t, "BAD_USER_INPUT", errorCode(t, errs))
}
