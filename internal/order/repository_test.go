package order

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertOrderSQL = regexp.QuoteMeta(`INSERT INTO orders (id, customer_phone, full_delivery_address, total_price, status, created_at)`)
	insertItemSQL  = regexp.QuoteMeta(`INSERT INTO order_items (id, order_id, position, name, size, price, quantity, image)`)
)

func TestRepositoryCreate_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	o := &Order{
		ID:                  "WF-7K3M9Q2D",
		CustomerPhone:       "+96170000000",
		FullDeliveryAddress: "Beirut, Hamra St, Plaza, 3rd",
		TotalPrice:          109.99,
		CreatedAt:           now,
		Items: []Item{
			{Name: "Oud Royale", Size: "50ml", Price: 45, Quantity: 2, Image: "/oud.jpg"},
			{Name: "Rose Petal", Size: "30ml", Price: 19.99, Quantity: 1, Image: "/rose.jpg"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(insertOrderSQL).
		WithArgs(o.ID, o.CustomerPhone, o.FullDeliveryAddress, o.TotalPrice, "new", o.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemSQL).
		WithArgs(sqlmock.AnyArg(), o.ID, 0, "Oud Royale", "50ml", 45.0, 2, "/oud.jpg").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemSQL).
		WithArgs(sqlmock.AnyArg(), o.ID, 1, "Rose Petal", "30ml", 19.99, 1, "/rose.jpg").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	assert.Equal(t, StatusNew, o.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_AssignsIDWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	o := &Order{CustomerPhone: "1", FullDeliveryAddress: "a"}

	mock.ExpectBegin()
	mock.ExpectExec(insertOrderSQL).
		WithArgs(sqlmock.AnyArg(), "1", "a", 0.0, "new", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	assert.NotEmpty(t, o.ID)
	assert.False(t, o.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_ItemInsertErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	o := &Order{
		ID: "o1", CustomerPhone: "1", FullDeliveryAddress: "a", TotalPrice: 5, CreatedAt: time.Now(),
		Items: []Item{{Name: "Oud", Size: "5ml", Price: 5, Quantity: 1}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(insertOrderSQL).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertItemSQL).WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	require.Error(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_DuplicateID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(insertOrderSQL).WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"orders_pkey\""})
	mock.ExpectRollback()

	err = NewRepository(db).Create(context.Background(), &Order{
		ID:            "ORD-1A2B3C4D",
		CustomerPhone: "+961",
		Items:         []Item{{Name: "Oud", Size: "50ml", Price: 45, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_phone", "full_delivery_address", "total_price", "status", "created_at"}).
			AddRow("o1", "+961", "Beirut, Hamra St, Plaza, 3rd", 90.0, "new", created))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM order_items WHERE order_id = $1 ORDER BY position`)).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "size", "price", "quantity", "image"}).
			AddRow("Oud", "50ml", 45.0, 2, "/oud.jpg"))

	o, err := repo.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, StatusNew, o.Status)
	assert.Equal(t, created, o.CreatedAt)
	assert.Equal(t, []Item{{Name: "Oud", Size: "50ml", Price: 45, Quantity: 2, Image: "/oud.jpg"}}, o.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	o, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, o)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryList_GroupsItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	t1 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "customer_phone", "full_delivery_address", "total_price", "status", "created_at",
		"name", "size", "price", "quantity", "image",
	}).
		AddRow("o2", "2", "addr2", 90.0, "new", t1, "Oud", "50ml", 45.0, 2, "/oud.jpg").
		AddRow("o2", "2", "addr2", 90.0, "new", t1, "Rose", "30ml", 0.0, 1, "/rose.jpg").
		AddRow("o1", "1", "addr1", 0.0, "new", t2, nil, nil, nil, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN order_items oi ON oi.order_id = o.id`)).
		WithArgs(50).
		WillReturnRows(rows)

	orders, err := repo.List(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, "o1", orders[1].ID)
	assert.Empty(t, orders[1].Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderValidate(t *testing.T) {
	valid := func() Order {
		return Order{
			CustomerPhone:       "+961",
			FullDeliveryAddress: "Beirut, Hamra St, Plaza, 3rd",
			Items: []Item{
				{Name: "Oud", Size: "50ml", Price: 45, Quantity: 2},
				{Name: "Rose", Size: "30ml", Price: 19.99, Quantity: 3},
			},
			TotalPrice: 149.97,
		}
	}

	tests := map[string]struct {
		mutate  func(o *Order)
		wantErr bool
	}{
		"valid":            {mutate: func(o *Order) {}},
		"missing phone":    {mutate: func(o *Order) { o.CustomerPhone = " " }, wantErr: true},
		"missing address":  {mutate: func(o *Order) { o.FullDeliveryAddress = "" }, wantErr: true},
		"no items":         {mutate: func(o *Order) { o.Items = nil }, wantErr: true},
		"zero quantity":    {mutate: func(o *Order) { o.Items[0].Quantity = 0 }, wantErr: true},
		"total mismatch":   {mutate: func(o *Order) { o.TotalPrice = 150 }, wantErr: true},
		"negative price":   {mutate: func(o *Order) { o.Items[1].Price = -1 }, wantErr: true},
		"float total okay": {mutate: func(o *Order) { o.TotalPrice = 45*2 + 19.99*3 }},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			o := valid()
			tc.mutate(&o)
			err := o.Validate()
			if tc.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
		})
	}
}
