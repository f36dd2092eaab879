// Package servicetest provides in-memory stand-ins for the service
// dependencies, for use in tests.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/rental"
	"gadget-rental/internal/store"
)

// Store keeps everything in maps and mirrors the guarded updates of the
// Postgres store.
type Store struct {
	mu sync.Mutex

	nextID        int64
	users         map[int64]*models.User
	gadgets       map[int64]*models.Gadget
	cart          map[int64]*models.CartItem
	coupons       map[string]*models.Coupon
	orders        map[int64]*models.RentalOrder
	reviews       map[int64]*models.Review
	wishlist      map[int64]*models.WishlistItem
	notifications []models.Notification
	feedback      map[int64]*models.Feedback
}

func NewStore() *Store {
	return &Store{
		users:    map[int64]*models.User{},
		gadgets:  map[int64]*models.Gadget{},
		cart:     map[int64]*models.CartItem{},
		coupons:  map[string]*models.Coupon{},
		orders:   map[int64]*models.RentalOrder{},
		reviews:  map[int64]*models.Review{},
		wishlist: map[int64]*models.WishlistItem{},
		feedback: map[int64]*models.Feedback{},
	}
}

func (m *Store) id() int64 {
	m.nextID++
	return m.nextID
}

func notFound(what string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", what, id, store.ErrNotFound)
}

// Gadget returns the stored gadget itself so tests can adjust it
func (m *Store) Gadget(id int64) *models.Gadget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gadgets[id]
}

// Order returns the stored order itself so tests can adjust it
func (m *Store) Order(id int64) *models.RentalOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

// CartItem returns the stored cart line itself so tests can adjust it
func (m *Store) CartItem(id int64) *models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart[id]
}

// Coupon returns the stored coupon with the given code
func (m *Store) Coupon(code string) *models.Coupon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coupons[code]
}

// AddCoupon stores an active unlimited coupon
func (m *Store) AddCoupon(code string, percent float64) *models.Coupon {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.Coupon{ID: m.id(), Code: code, DiscountPercent: percent, IsActive: true}
	m.coupons[code] = c
	return c
}

// users

func (m *Store) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("users_email_key: %w", store.ErrDuplicate)
		}
	}
	u.ID = m.id()
	u.TrustScore = 100
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Store) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (m *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", email)
}

func (m *Store) UpdateProfile(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		return notFound("user", u.ID)
	}
	existing.Name, existing.Email, existing.Phone, existing.Address = u.Name, u.Email, u.Phone, u.Address
	return nil
}

func (m *Store) sortedUsers(keep func(*models.User) bool) []models.User {
	var out []models.User
	for _, u := range m.users {
		if keep(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Store) ListCustomers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sortedUsers(func(u *models.User) bool { return !u.IsAdmin })
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Store) ListAdmins(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedUsers(func(u *models.User) bool { return u.IsAdmin }), nil
}

func (m *Store) ListUserIDs(_ context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for _, u := range m.sortedUsers(func(*models.User) bool { return true }) {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (m *Store) SetUserVerified(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return false, notFound("user", id)
	}
	changed := !u.IsVerified
	u.IsVerified = true
	return changed, nil
}

func (m *Store) DeactivateUser(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return false, notFound("user", id)
	}
	changed := u.IsActive
	u.IsActive = false
	return changed, nil
}

// gadgets

func (m *Store) GetGadget(_ context.Context, id int64) (*models.Gadget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gadgets[id]
	if !ok {
		return nil, notFound("gadget", id)
	}
	cp := *g
	return &cp, nil
}

func (m *Store) gadgetList(keep func(*models.Gadget) bool, less func(a, b *models.Gadget) bool) []models.Gadget {
	var out []models.Gadget
	for _, g := range m.gadgets {
		if keep(g) {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func newestFirst(a, b *models.Gadget) bool { return a.ID > b.ID }

func limited(gs []models.Gadget, limit int) []models.Gadget {
	if len(gs) > limit {
		return gs[:limit]
	}
	return gs
}

func (m *Store) ListFeaturedGadgets(_ context.Context, limit int) ([]models.Gadget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return limited(m.gadgetList(func(g *models.Gadget) bool { return g.IsActive && g.IsFeatured }, newestFirst), limit), nil
}

func (m *Store) ListPopularGadgets(_ context.Context, limit int) ([]models.Gadget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return limited(m.gadgetList(func(g *models.Gadget) bool { return g.IsActive }, func(a, b *models.Gadget) bool {
		if a.RentalCount != b.RentalCount {
			return a.RentalCount > b.RentalCount
		}
		return a.ID < b.ID
	}), limit), nil
}

func (m *Store) ListCategories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, g := range m.gadgets {
		if !seen[g.Category] {
			seen[g.Category] = true
			out = append(out, g.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Store) SearchGadgets(_ context.Context, f store.GadgetFilter) ([]models.Gadget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keep := func(g *models.Gadget) bool {
		return g.IsActive &&
			(f.Category == "" || g.Category == f.Category) &&
			(f.Search == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(f.Search))) &&
			(f.MinPrice == 0 || g.PricePerDay >= f.MinPrice) &&
			(f.MaxPrice == 0 || g.PricePerDay <= f.MaxPrice)
	}
	less := func(a, b *models.Gadget) bool {
		switch f.SortBy {
		case store.SortPriceLowHigh:
			return a.PricePerDay < b.PricePerDay
		case store.SortNewest:
			return a.ID > b.ID
		default:
			return a.RentalCount > b.RentalCount
		}
	}
	return m.gadgetList(keep, less), nil
}

func (m *Store) ListAllGadgets(_ context.Context) ([]models.Gadget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gadgetList(func(*models.Gadget) bool { return true }, newestFirst), nil
}

func (m *Store) ListLowStockGadgets(_ context.Context, threshold int) ([]models.Gadget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gadgetList(func(g *models.Gadget) bool { return g.Stock < threshold },
		func(a, b *models.Gadget) bool { return a.Stock < b.Stock }), nil
}

func (m *Store) IncrementGadgetViews(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.gadgets[id]; ok {
		g.ViewCount++
	}
	return nil
}

func (m *Store) CreateGadget(_ context.Context, g *models.Gadget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = m.id()
	g.CreatedAt = time.Now()
	cp := *g
	m.gadgets[g.ID] = &cp
	return nil
}

func (m *Store) UpdateGadget(_ context.Context, g *models.Gadget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gadgets[g.ID]; !ok {
		return notFound("gadget", g.ID)
	}
	cp := *g
	m.gadgets[g.ID] = &cp
	return nil
}

func (m *Store) ToggleGadgetFeatured(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gadgets[id]
	if !ok {
		return false, notFound("gadget", id)
	}
	g.IsFeatured = !g.IsFeatured
	return g.IsFeatured, nil
}

func (m *Store) DeleteGadget(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gadgets[id]; !ok {
		return notFound("gadget", id)
	}
	for _, o := range m.orders {
		if o.GadgetID == id {
			return fmt.Errorf("rental_orders_gadget_id_fkey: %w", store.ErrInUse)
		}
	}
	delete(m.gadgets, id)
	return nil
}

// cart

func (m *Store) ListCartLines(_ context.Context, userID int64) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CartLine
	for _, c := range m.cart {
		if c.UserID != userID {
			continue
		}
		g := m.gadgets[c.GadgetID]
		out = append(out, models.CartLine{CartItem: *c, GadgetName: g.Name, PricePerDay: g.PricePerDay, Stock: g.Stock})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) CountCartItems(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.cart {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *Store) GetCartItem(_ context.Context, id int64) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cart[id]
	if !ok {
		return nil, notFound("cart item", id)
	}
	cp := *c
	return &cp, nil
}

func (m *Store) FindCartItem(_ context.Context, userID, gadgetID int64, start, end time.Time) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cart {
		if c.UserID == userID && c.GadgetID == gadgetID && c.StartDate.Equal(start) && c.EndDate.Equal(end) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, notFound("cart item for gadget", gadgetID)
}

func (m *Store) CreateCartItem(_ context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = m.id()
	cp := *item
	m.cart[item.ID] = &cp
	return nil
}

func (m *Store) SetCartItemQuantity(_ context.Context, id int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cart[id]
	if !ok {
		return notFound("cart item", id)
	}
	c.Quantity = quantity
	return nil
}

func (m *Store) DeleteCartItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cart, id)
	return nil
}

func (m *Store) ClearCart(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCartLocked(userID)
	return nil
}

func (m *Store) clearCartLocked(userID int64) {
	for id, c := range m.cart {
		if c.UserID == userID {
			delete(m.cart, id)
		}
	}
}

func (m *Store) GetCouponByCode(_ context.Context, code string) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, notFound("coupon", code)
	}
	cp := *c
	return &cp, nil
}

// orders

func (m *Store) PlaceOrders(_ context.Context, p store.PlaceOrdersParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// all-or-nothing: check everything before writing
	need := map[int64]int{}
	for _, o := range p.Orders {
		need[o.GadgetID] += o.Quantity
	}
	for gid, qty := range need {
		if g := m.gadgets[gid]; g == nil || g.Stock < qty {
			return fmt.Errorf("gadget %d: %w", gid, store.ErrOutOfStock)
		}
	}
	var coupon *models.Coupon
	if p.CouponID != 0 {
		for _, c := range m.coupons {
			if c.ID == p.CouponID {
				coupon = c
			}
		}
		if coupon == nil || (coupon.MaxUses != nil && coupon.TimesUsed >= *coupon.MaxUses) {
			return fmt.Errorf("coupon %d used up: %w", p.CouponID, store.ErrStaleState)
		}
		coupon.TimesUsed++
	}

	m.users[p.UserID].Address = p.Address
	for _, o := range p.Orders {
		g := m.gadgets[o.GadgetID]
		g.Stock -= o.Quantity
		g.RentalCount += o.Quantity
		o.ID = m.id()
		o.CreatedAt = time.Now()
		o.UpdatedAt = o.CreatedAt
		o.GadgetName = g.Name
		cp := *o
		m.orders[o.ID] = &cp
	}
	m.clearCartLocked(p.UserID)
	return nil
}

func (m *Store) GetOrder(_ context.Context, id int64) (*models.RentalOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, notFound("order", id)
	}
	cp := *o
	return &cp, nil
}

func (m *Store) orderList(keep func(*models.RentalOrder) bool) []models.RentalOrder {
	var out []models.RentalOrder
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *Store) ListOrdersByUser(_ context.Context, userID int64) ([]models.RentalOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderList(func(o *models.RentalOrder) bool { return o.UserID == userID }), nil
}

func (m *Store) ListOrders(_ context.Context, status string) ([]models.RentalOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderList(func(o *models.RentalOrder) bool { return status == "" || o.Status == status }), nil
}

func (m *Store) LatestPayableOrder(_ context.Context, userID int64) (*models.RentalOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.orderList(func(o *models.RentalOrder) bool {
		return o.UserID == userID && o.PaymentStatus != models.PaymentStatusPaid && o.Status != models.OrderStatusCancelled
	})
	if len(list) == 0 {
		return nil, notFound("payable order for user", userID)
	}
	return &list[0], nil
}

func (m *Store) addNoticeLocked(n *models.Notification) {
	if n == nil {
		return
	}
	m.notifications = append(m.notifications, models.Notification{
		ID: m.id(), UserID: n.UserID, Message: n.Message, CreatedAt: time.Now(),
	})
}

func (m *Store) RecordPayment(_ context.Context, orderID int64, status, txID string, notice *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.PaymentStatus == models.PaymentStatusPaid || o.Status == models.OrderStatusCancelled {
		return fmt.Errorf("order %d payment: %w", orderID, store.ErrStaleState)
	}
	o.PaymentStatus, o.TransactionID = status, txID
	m.addNoticeLocked(notice)
	return nil
}

func (m *Store) ApplyTransition(_ context.Context, order *models.RentalOrder, step *rental.Step, notice *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[order.ID]
	if !ok || o.Status != step.From {
		return fmt.Errorf("order %d no longer %s: %w", order.ID, step.From, store.ErrStaleState)
	}
	o.Status = step.To
	m.gadgets[o.GadgetID].Stock += step.Restock
	m.addNoticeLocked(notice)
	return nil
}

func (m *Store) MarkDepositRefunded(_ context.Context, orderID int64, notice *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != models.OrderStatusReturned || o.DepositReturned {
		return fmt.Errorf("order %d deposit: %w", orderID, store.ErrStaleState)
	}
	o.DepositReturned = true
	m.addNoticeLocked(notice)
	return nil
}

// engagement

func (m *Store) GetReviewByOrder(_ context.Context, orderID int64) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.OrderID == orderID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, notFound("review for order", orderID)
}

func (m *Store) CreateReview(_ context.Context, r *models.Review, notice *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.OrderID == r.OrderID {
			return fmt.Errorf("reviews_order_id_key: %w", store.ErrDuplicate)
		}
	}
	r.ID = m.id()
	r.CreatedAt = time.Now()
	cp := *r
	m.reviews[r.ID] = &cp

	var sum, n int
	for _, existing := range m.reviews {
		if existing.GadgetID == r.GadgetID {
			sum += existing.Rating
			n++
		}
	}
	m.gadgets[r.GadgetID].AvgRating = float64(sum) / float64(n)
	m.addNoticeLocked(notice)
	return nil
}

func (m *Store) reviewList(keep func(*models.Review) bool) []models.Review {
	var out []models.Review
	for _, r := range m.reviews {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *Store) ListReviews(_ context.Context) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewList(func(*models.Review) bool { return true }), nil
}

func (m *Store) ListReviewsByGadget(_ context.Context, gadgetID int64) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewList(func(r *models.Review) bool { return r.GadgetID == gadgetID }), nil
}

func (m *Store) AddWishlistItem(_ context.Context, userID, gadgetID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wishlist {
		if w.UserID == userID && w.GadgetID == gadgetID {
			return false, nil
		}
	}
	id := m.id()
	m.wishlist[id] = &models.WishlistItem{ID: id, UserID: userID, GadgetID: gadgetID, AddedAt: time.Now()}
	return true, nil
}

func (m *Store) GetWishlistItem(_ context.Context, id int64) (*models.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wishlist[id]
	if !ok {
		return nil, notFound("wishlist item", id)
	}
	cp := *w
	return &cp, nil
}

func (m *Store) ListWishlist(_ context.Context, userID int64) ([]models.WishlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WishlistItem
	for _, w := range m.wishlist {
		if w.UserID == userID {
			cp := *w
			cp.GadgetName = m.gadgets[w.GadgetID].Name
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Store) DeleteWishlistItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wishlist, id)
	return nil
}

func (m *Store) CreateNotifications(_ context.Context, notes ...models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range notes {
		m.addNoticeLocked(&notes[i])
	}
	return nil
}

func (m *Store) ListNotifications(_ context.Context, userID int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].UserID == userID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

// Messages returns a user's notification texts, oldest first
func (m *Store) Messages(userID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n.Message)
		}
	}
	return out
}

func (m *Store) GetNotification(_ context.Context, id int64) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			cp := n
			return &cp, nil
		}
	}
	return nil, notFound("notification", id)
}

func (m *Store) MarkNotificationRead(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *Store) MarkAllNotificationsRead(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].UserID == userID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *Store) CreateFeedback(_ context.Context, fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb.ID = m.id()
	fb.CreatedAt = time.Now()
	cp := *fb
	m.feedback[fb.ID] = &cp
	return nil
}

func (m *Store) GetFeedback(_ context.Context, id int64) (*models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.feedback[id]
	if !ok {
		return nil, notFound("feedback", id)
	}
	cp := *fb
	return &cp, nil
}

func (m *Store) ListFeedback(_ context.Context) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Feedback
	for _, fb := range m.feedback {
		out = append(out, *fb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Store) ResolveFeedback(_ context.Context, id int64, notice *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.feedback[id]
	if !ok || fb.Status == models.FeedbackStatusResolved {
		return fmt.Errorf("feedback %d: %w", id, store.ErrStaleState)
	}
	fb.Status = models.FeedbackStatusResolved
	m.addNoticeLocked(notice)
	return nil
}

// reports

func (m *Store) DashboardStats(_ context.Context, today time.Time) (*models.DashboardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.DashboardStats{TotalGadgets: len(m.gadgets)}
	for _, o := range m.orders {
		switch o.Status {
		case models.OrderStatusActive:
			stats.ActiveRentals++
		case models.OrderStatusBooked:
			stats.PendingApprovals++
		}
		if o.PaymentStatus == models.PaymentStatusPaid {
			stats.TotalRevenue += o.TotalPrice
			if rental.Day(o.CreatedAt).Equal(rental.Day(today)) {
				stats.TodayRevenue += o.TotalPrice
			}
		}
	}
	return stats, nil
}

func (m *Store) DailyRevenue(_ context.Context) ([]models.DailyRevenueRow, error) {
	return nil, nil
}

func (m *Store) MostRentedGadgets(_ context.Context) ([]models.GadgetRentalRow, error) {
	return nil, nil
}

func (m *Store) UserActivity(_ context.Context) ([]models.UserActivityRow, error) {
	return nil, nil
}
