// Package pipeline turns the three raw input batches into a consistent
// linked dataset in the entity store. A run is a full destructive reseed:
// clear everything, insert customers and products, then reconcile and
// insert orders. Failures are isolated at three levels — a bad order, a bad
// line item within an order, and the final order batch — and none of them
// aborts the remaining work. Only an unreachable store is fatal.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"order-analytics-service/internal/domain"
	"order-analytics-service/internal/itemtext"
	"order-analytics-service/internal/metrics"
	"order-analytics-service/internal/repository"
	"order-analytics-service/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 8

// Summary is the per-run report of a reseed
type Summary struct {
	CustomersInserted int       `json:"customersInserted"`
	CustomersSkipped  int       `json:"customersSkipped"`
	ProductsInserted  int       `json:"productsInserted"`
	ProductsSkipped   int       `json:"productsSkipped"`
	OrdersInserted    int       `json:"ordersInserted"`
	OrdersSkipped     int       `json:"ordersSkipped"`
	LinesDropped      int       `json:"linesDropped"`
	OrdersWithNoLines int       `json:"ordersWithNoLines"`
	StartedAt         time.Time `json:"startedAt"`
	FinishedAt        time.Time `json:"finishedAt"`
}

// Pipeline is the ingestion and reconciliation pipeline
type Pipeline struct {
	customers   repository.CustomerRepository
	products    repository.ProductRepository
	orders      repository.OrderRepository
	metrics     metrics.PipelineMetrics
	log         *logger.Logger
	parallelism int
}

// New creates a new reconciliation pipeline. Parallelism bounds the number
// of orders reconciled concurrently so a large batch cannot saturate the
// store with lookup traffic.
func New(
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	pipelineMetrics metrics.PipelineMetrics,
	log *logger.Logger,
	parallelism int,
) *Pipeline {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &Pipeline{
		customers:   customers,
		products:    products,
		orders:      orders,
		metrics:     pipelineMetrics,
		log:         log,
		parallelism: parallelism,
	}
}

// Run executes one full reseed over the given batches
func (p *Pipeline) Run(ctx context.Context, batches *Batches) (*Summary, error) {
	summary := &Summary{StartedAt: time.Now()}

	if err := p.clearStore(ctx); err != nil {
		return nil, err
	}

	customerIDs, err := p.insertCustomers(ctx, batches.Customers, summary)
	if err != nil {
		return nil, err
	}

	productIDs, err := p.insertProducts(ctx, batches.Products, summary)
	if err != nil {
		return nil, err
	}

	assembled := p.reconcileOrders(ctx, batches.Orders, customerIDs, productIDs, summary)

	// One batch at the end of the pass. A store-level validation rejection
	// here is logged and reported, it neither retries individual orders nor
	// rolls back the customers and products already inserted.
	inserted, err := p.orders.BulkInsert(ctx, assembled)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			p.log.Errorw("Order batch rejected by store", "error", err)
		} else {
			return nil, fmt.Errorf("failed to insert orders: %w", err)
		}
	}
	summary.OrdersInserted = inserted
	p.metrics.IncRecordsInserted("order", inserted)

	summary.FinishedAt = time.Now()
	p.metrics.ObserveRunDuration(summary.FinishedAt.Sub(summary.StartedAt).Seconds())

	p.log.Infow("Reseed run finished",
		"customersInserted", summary.CustomersInserted,
		"productsInserted", summary.ProductsInserted,
		"ordersInserted", summary.OrdersInserted,
		"ordersSkipped", summary.OrdersSkipped,
		"linesDropped", summary.LinesDropped,
	)
	return summary, nil
}

// clearStore truncates the three collections. Orders go first so their
// lines do not dangle while customers and products disappear underneath.
func (p *Pipeline) clearStore(ctx context.Context) error {
	if err := p.orders.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	if err := p.customers.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear customers: %w", err)
	}
	if err := p.products.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}

// insertCustomers maps raw customer rows 1:1, validates them and inserts
// the valid ones in one batch. The returned map resolves customer natural
// ids to store-assigned internal identifiers.
func (p *Pipeline) insertCustomers(ctx context.Context, raws []RawCustomer, summary *Summary) (map[string]domain.Customer, error) {
	customers := make([]domain.Customer, 0, len(raws))
	for _, raw := range raws {
		customer, err := mapCustomer(raw)
		if err != nil {
			p.log.Warnw("Skipping invalid customer row", "customerId", raw.NaturalID, "error", err)
			p.metrics.IncRecordsSkipped("customer", "validation")
			summary.CustomersSkipped++
			continue
		}
		customers = append(customers, customer)
	}

	inserted, err := p.customers.BulkInsert(ctx, customers)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customers: %w", err)
	}

	byNaturalID := make(map[string]domain.Customer, len(inserted))
	for _, customer := range inserted {
		byNaturalID[customer.NaturalID] = customer
	}
	summary.CustomersInserted = len(inserted)
	p.metrics.IncRecordsInserted("customer", len(inserted))
	return byNaturalID, nil
}

// insertProducts is the product counterpart of insertCustomers
func (p *Pipeline) insertProducts(ctx context.Context, raws []RawProduct, summary *Summary) (map[string]domain.Product, error) {
	products := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		product, err := mapProduct(raw)
		if err != nil {
			p.log.Warnw("Skipping invalid product row", "productId", raw.NaturalID, "error", err)
			p.metrics.IncRecordsSkipped("product", "validation")
			summary.ProductsSkipped++
			continue
		}
		products = append(products, product)
	}

	inserted, err := p.products.BulkInsert(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("failed to insert products: %w", err)
	}

	byNaturalID := make(map[string]domain.Product, len(inserted))
	for _, product := range inserted {
		byNaturalID[product.NaturalID] = product
	}
	summary.ProductsInserted = len(inserted)
	p.metrics.IncRecordsInserted("product", len(inserted))
	return byNaturalID, nil
}

// reconcileOrders resolves each raw order independently under a bounded
// worker group. Orders have no cross-order dependency, so only the
// parallelism bound and the shared read-only lookup maps connect them.
// Input order is preserved for the final batch.
func (p *Pipeline) reconcileOrders(
	ctx context.Context,
	raws []RawOrder,
	customerIDs map[string]domain.Customer,
	productIDs map[string]domain.Product,
	summary *Summary,
) []domain.Order {
	results := make([]*domain.Order, len(raws))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			order, stats := p.reconcileOrder(raw, customerIDs, productIDs)

			mu.Lock()
			summary.LinesDropped += stats.linesDropped
			if order == nil {
				summary.OrdersSkipped++
			} else {
				if len(order.Lines) == 0 {
					summary.OrdersWithNoLines++
				}
				results[i] = order
			}
			mu.Unlock()
			return nil
		})
	}
	// Workers only propagate context cancellation; reconciliation failures
	// are per-order skips, not errors.
	_ = g.Wait()

	assembled := make([]domain.Order, 0, len(raws))
	for _, order := range results {
		if order != nil {
			assembled = append(assembled, *order)
		}
	}
	return assembled
}

type orderStats struct {
	linesDropped int
}

// reconcileOrder turns one raw order row into an order record, or nil when
// the row has to be skipped
func (p *Pipeline) reconcileOrder(
	raw RawOrder,
	customerIDs map[string]domain.Customer,
	productIDs map[string]domain.Product,
) (*domain.Order, orderStats) {
	var stats orderStats

	parsed, err := itemtext.Parse(raw.Products)
	if err != nil {
		parseErr := domain.NewParseError(raw.NaturalID, raw.Products, err)
		p.log.Warnw("Failed to parse products for order", "orderId", raw.NaturalID, "raw", raw.Products, "error", parseErr)
		p.metrics.IncRecordsSkipped("order", "parse")
		return nil, stats
	}

	items, ok := parsed.([]interface{})
	if !ok {
		p.log.Warnw("Products data is not a list for order", "orderId", raw.NaturalID)
		p.metrics.IncRecordsSkipped("order", "not_a_list")
		return nil, stats
	}

	customer, ok := customerIDs[raw.CustomerNaturalID]
	if !ok {
		refErr := domain.NewReferenceError("customer", raw.CustomerNaturalID, raw.NaturalID)
		p.log.Warnw("Customer not found for order", "orderId", raw.NaturalID, "error", refErr)
		p.metrics.IncRecordsSkipped("order", "customer_not_found")
		return nil, stats
	}

	totalAmount, err := strconv.ParseFloat(raw.TotalAmount, 64)
	if err != nil {
		p.log.Warnw("Invalid total amount for order", "orderId", raw.NaturalID, "totalAmount", raw.TotalAmount)
		p.metrics.IncRecordsSkipped("order", "validation")
		return nil, stats
	}

	orderDate, err := parseOrderDate(raw.OrderDate)
	if err != nil {
		p.log.Warnw("Invalid order date for order", "orderId", raw.NaturalID, "orderDate", raw.OrderDate)
		p.metrics.IncRecordsSkipped("order", "validation")
		return nil, stats
	}

	status, err := domain.ParseOrderStatus(raw.Status)
	if err != nil {
		p.log.Warnw("Invalid status for order", "orderId", raw.NaturalID, "status", raw.Status)
		p.metrics.IncRecordsSkipped("order", "validation")
		return nil, stats
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		line, err := p.reconcileLine(item, raw.NaturalID, productIDs)
		if err != nil {
			stats.linesDropped++
			continue
		}
		lines = append(lines, line)
	}

	// An order that lost every line is still assembled and queued, matching
	// the source system. See DESIGN.md.
	order := &domain.Order{
		NaturalID:   raw.NaturalID,
		CustomerID:  customer.ID,
		Lines:       lines,
		TotalAmount: totalAmount,
		OrderDate:   orderDate,
		Status:      status,
	}
	if err := order.Validate(); err != nil {
		p.log.Warnw("Order failed validation", "orderId", raw.NaturalID, "error", err)
		p.metrics.IncRecordsSkipped("order", "validation")
		return nil, stats
	}
	return order, stats
}

// reconcileLine validates one parsed line item and resolves its product
// reference. A failure drops this line only; the order proceeds with its
// remaining lines.
func (p *Pipeline) reconcileLine(item interface{}, orderID string, productIDs map[string]domain.Product) (domain.OrderLine, error) {
	fields, ok := item.(map[string]interface{})
	if !ok {
		err := domain.NewValidationError("order_line", orderID, "item", "is not an object")
		p.log.Warnw("Invalid product structure in order", "orderId", orderID, "error", err)
		p.metrics.IncLinesDropped("invalid_structure")
		return domain.OrderLine{}, err
	}

	productNaturalID, ok := stringField(fields, "productId")
	if !ok || productNaturalID == "" {
		err := domain.NewValidationError("order_line", orderID, "productId", "is required")
		p.log.Warnw("Invalid product structure in order", "orderId", orderID, "error", err)
		p.metrics.IncLinesDropped("missing_field")
		return domain.OrderLine{}, err
	}

	quantity, ok := numberField(fields, "quantity")
	if !ok || quantity < 1 || quantity != float64(int(quantity)) {
		err := domain.NewValidationError("order_line", orderID, "quantity", "must be an integer of at least 1")
		p.log.Warnw("Invalid product structure in order", "orderId", orderID, "error", err)
		p.metrics.IncLinesDropped("missing_field")
		return domain.OrderLine{}, err
	}

	price, ok := numberField(fields, "priceAtPurchase")
	if !ok || price < 0 {
		err := domain.NewValidationError("order_line", orderID, "priceAtPurchase", "is required and must not be negative")
		p.log.Warnw("Invalid product structure in order", "orderId", orderID, "error", err)
		p.metrics.IncLinesDropped("missing_field")
		return domain.OrderLine{}, err
	}

	product, ok := productIDs[productNaturalID]
	if !ok {
		err := domain.NewReferenceError("product", productNaturalID, orderID)
		p.log.Warnw("Product not found in order", "orderId", orderID, "productId", productNaturalID, "error", err)
		p.metrics.IncLinesDropped("product_not_found")
		return domain.OrderLine{}, err
	}

	return domain.OrderLine{
		ProductID:       product.ID,
		Quantity:        int(quantity),
		PriceAtPurchase: price,
	}, nil
}

// mapCustomer maps one raw customer row 1:1 into a customer record
func mapCustomer(raw RawCustomer) (domain.Customer, error) {
	age, err := strconv.Atoi(raw.Age)
	if err != nil {
		return domain.Customer{}, domain.NewValidationError("customer", raw.NaturalID, "age", "must be an integer")
	}

	customer := domain.Customer{
		NaturalID: raw.NaturalID,
		Name:      raw.Name,
		Email:     raw.Email,
		Age:       age,
		Location:  raw.Location,
		Gender:    domain.Gender(raw.Gender),
	}
	if err := customer.Validate(); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

// mapProduct maps one raw product row 1:1 into a product record
func mapProduct(raw RawProduct) (domain.Product, error) {
	price, err := strconv.ParseFloat(raw.Price, 64)
	if err != nil {
		return domain.Product{}, domain.NewValidationError("product", raw.NaturalID, "price", "must be a number")
	}
	stock, err := strconv.Atoi(raw.Stock)
	if err != nil {
		return domain.Product{}, domain.NewValidationError("product", raw.NaturalID, "stock", "must be an integer")
	}

	product := domain.Product{
		NaturalID: raw.NaturalID,
		Name:      raw.Name,
		Category:  raw.Category,
		Price:     price,
		Stock:     stock,
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// stringField extracts a string-valued field from a parsed line item
func stringField(fields map[string]interface{}, key string) (string, bool) {
	value, ok := fields[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// numberField extracts a numeric field from a parsed line item; numeric
// strings are tolerated because the feed quotes numbers inconsistently
func numberField(fields map[string]interface{}, key string) (float64, bool) {
	value, ok := fields[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// parseOrderDate accepts the timestamp layouts seen in the feed
func parseOrderDate(raw string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
