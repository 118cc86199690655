package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() Customer {
	return Customer{
		ID:        uuid.New(),
		NaturalID: "cust-1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Age:       30,
		Location:  "Oslo",
		Gender:    GenderFemale,
	}
}

func TestCustomerValidate(t *testing.T) {
	require.NoError(t, validCustomer().Validate())

	tests := []struct {
		name   string
		mutate func(*Customer)
		field  string
	}{
		{"missing natural id", func(c *Customer) { c.NaturalID = "" }, "natural_id"},
		{"missing name", func(c *Customer) { c.Name = "" }, "name"},
		{"missing email", func(c *Customer) { c.Email = "" }, "email"},
		{"zero age", func(c *Customer) { c.Age = 0 }, "age"},
		{"negative age", func(c *Customer) { c.Age = -4 }, "age"},
		{"missing location", func(c *Customer) { c.Location = "" }, "location"},
		{"unknown gender", func(c *Customer) { c.Gender = "Unknown" }, "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(&c)

			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestProductValidate(t *testing.T) {
	valid := Product{
		ID:        uuid.New(),
		NaturalID: "prod-1",
		Name:      "Lamp",
		Category:  "Home",
		Price:     19.99,
		Stock:     4,
	}
	require.NoError(t, valid.Validate())

	free := valid
	free.Price = 0
	assert.NoError(t, free.Validate(), "zero price is allowed")

	negative := valid
	negative.Price = -1
	assert.Error(t, negative.Validate())

	outOfStock := valid
	outOfStock.Stock = 0
	assert.NoError(t, outOfStock.Validate())
}

func TestOrderLineValidate(t *testing.T) {
	valid := OrderLine{ProductID: uuid.New(), Quantity: 1, PriceAtPurchase: 0}
	require.NoError(t, valid.Validate())

	noProduct := valid
	noProduct.ProductID = uuid.Nil
	assert.Error(t, noProduct.Validate())

	zeroQuantity := valid
	zeroQuantity.Quantity = 0
	assert.Error(t, zeroQuantity.Validate())

	negativePrice := valid
	negativePrice.PriceAtPurchase = -0.01
	assert.Error(t, negativePrice.Validate())
}

func TestOrderValidateAllowsEmptyLines(t *testing.T) {
	o := Order{
		ID:          uuid.New(),
		NaturalID:   "ord-1",
		CustomerID:  uuid.New(),
		Lines:       nil,
		TotalAmount: 0,
		OrderDate:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:      StatusCompleted,
	}
	assert.NoError(t, o.Validate())
}

func TestParseGender(t *testing.T) {
	for _, raw := range []string{"Male", "Female", "Other"} {
		g, err := ParseGender(raw)
		require.NoError(t, err)
		assert.Equal(t, Gender(raw), g)
	}

	_, err := ParseGender("male")
	assert.Error(t, err, "values are case sensitive")
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, s)

	s, err = ParseOrderStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = ParseOrderStatus("shipped")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}
