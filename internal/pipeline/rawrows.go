package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// RawCustomer is one unvalidated customer row of the raw feed
type RawCustomer struct {
	NaturalID string
	Name      string
	Email     string
	Age       string
	Location  string
	Gender    string
}

// RawProduct is one unvalidated product row of the raw feed
type RawProduct struct {
	NaturalID string
	Name      string
	Category  string
	Price     string
	Stock     string
}

// RawOrder is one unvalidated order row of the raw feed. Products carries
// the embedded loosely-structured line-item text verbatim.
type RawOrder struct {
	NaturalID         string
	CustomerNaturalID string
	Products          string
	TotalAmount       string
	OrderDate         string
	Status            string
}

// Batches holds the three raw input batches of one pipeline run
type Batches struct {
	Customers []RawCustomer
	Products  []RawProduct
	Orders    []RawOrder
}

// LoadBatches reads the three CSV batches from disk
func LoadBatches(customersPath, productsPath, ordersPath string) (*Batches, error) {
	batches := &Batches{}

	err := readCSV(customersPath, func(row map[string]string) {
		batches.Customers = append(batches.Customers, RawCustomer{
			NaturalID: row["_id"],
			Name:      row["name"],
			Email:     row["email"],
			Age:       row["age"],
			Location:  row["location"],
			Gender:    row["gender"],
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read customers batch: %w", err)
	}

	err = readCSV(productsPath, func(row map[string]string) {
		batches.Products = append(batches.Products, RawProduct{
			NaturalID: row["_id"],
			Name:      row["name"],
			Category:  row["category"],
			Price:     row["price"],
			Stock:     row["stock"],
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read products batch: %w", err)
	}

	err = readCSV(ordersPath, func(row map[string]string) {
		batches.Orders = append(batches.Orders, RawOrder{
			NaturalID:         row["_id"],
			CustomerNaturalID: row["customerId"],
			Products:          row["products"],
			TotalAmount:       row["totalAmount"],
			OrderDate:         row["orderDate"],
			Status:            row["status"],
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read orders batch: %w", err)
	}

	return batches, nil
}

// readCSV streams a header-addressed CSV file row by row
func readCSV(path string, handle func(row map[string]string)) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("missing header row: %w", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		handle(row)
	}
}
