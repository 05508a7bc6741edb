package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoreira/storefront/internal/kv"
)

const session = "sess-1"

func newBook() (*AddressBook, *kv.Memory) {
	mem := kv.NewMemory()
	return NewAddressBook(mem), mem
}

func sampleAddress() Address {
	return Address{
		FullName: "Ana",
		Phone:    "(64) 99999-9999",
		CEP:      "74000-000",
		Street:   "Rua A",
		Number:   "10",
		District: "Centro",
	}
}

func TestUpsert_CreatesAndSelects(t *testing.T) {
	book, _ := newBook()
	ctx := context.Background()

	id, err := book.Upsert(ctx, session, sampleAddress())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := book.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.NotZero(t, list[0].CreatedAt)

	selected, err := book.Selected(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, id, selected.ID)
}

func TestUpsert_DuplicateUpdatesTimestampInPlace(t *testing.T) {
	book, _ := newBook()
	ctx := context.Background()

	firstID, err := book.Upsert(ctx, session, sampleAddress())
	require.NoError(t, err)

	list, err := book.List(ctx, session)
	require.NoError(t, err)
	firstCreated := list[0].CreatedAt

	time.Sleep(2 * time.Millisecond)

	// Same location, different casing and spacing.
	dup := sampleAddress()
	dup.Street = "  rua a "
	dup.District = "CENTRO"
	dup.CEP = "74000000"
	dup.FullName = "Ana Maria"

	secondID, err := book.Upsert(ctx, session, dup)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	list, err = book.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana Maria", list[0].FullName)
	assert.Greater(t, list[0].CreatedAt, firstCreated)
}

func TestUpsert_DifferentComplementIsNewAddress(t *testing.T) {
	book, _ := newBook()
	ctx := context.Background()

	_, err := book.Upsert(ctx, session, sampleAddress())
	require.NoError(t, err)

	other := sampleAddress()
	other.Complement = "Apto 12"
	_, err = book.Upsert(ctx, session, other)
	require.NoError(t, err)

	list, err := book.List(ctx, session)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestList_SortsNewestFirst(t *testing.T) {
	book, _ := newBook()
	ctx := context.Background()

	_, err := book.Upsert(ctx, session, sampleAddress())
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second := sampleAddress()
	second.Street = "Rua B"
	secondID, err := book.Upsert(ctx, session, second)
	require.NoError(t, err)

	list, err := book.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, secondID, list[0].ID)
}

func TestList_ToleratesMalformedPayload(t *testing.T) {
	book, mem := newBook()
	ctx := context.Background()

	require.NoError(t, mem.Set(ctx, kv.AddressesKey(session), "{oops"))
	list, err := book.List(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, mem.Set(ctx, kv.AddressesKey(session), `[null, {"id": "a1", "street": "Rua A"}]`))
	list, err = book.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
}

func TestDelete_ClearsSelectionWhenSelected(t *testing.T) {
	book, _ := newBook()
	ctx := context.Background()

	id, err := book.Upsert(ctx, session, sampleAddress())
	require.NoError(t, err)

	require.NoError(t, book.Delete(ctx, session, id))

	list, err := book.List(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, list)

	selected, err := book.Selected(ctx, session)
	require.NoError(t, err)
	assert.Nil(t, selected)
}

func TestDelete_KeepsSelectionForOtherAddress(t *testing.T) {
	book, _ := newBook()
	ctx := context.Background()

	_, err := book.Upsert(ctx, session, sampleAddress())
	require.NoError(t, err)

	other := sampleAddress()
	other.Street = "Rua B"
	otherID, err := book.Upsert(ctx, session, other)
	require.NoError(t, err)

	// The last upsert selected otherID; delete the first one.
	list, err := book.List(ctx, session)
	require.NoError(t, err)
	var firstID string
	for _, a := range list {
		if a.ID != otherID {
			firstID = a.ID
		}
	}
	require.NoError(t, book.Delete(ctx, session, firstID))

	selected, err := book.Selected(ctx, session)
	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, otherID, selected.ID)
}
