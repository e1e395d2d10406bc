package mongo

import (
	"fmt"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mongoUser struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Name                 string             `bson:"name"`
	Email                string             `bson:"email"`
	Password             string             `bson:"password"`
	Role                 string             `bson:"role"`
	ResetPasswordToken   string             `bson:"reset_password_token,omitempty"`
	ResetPasswordExpires *time.Time         `bson:"reset_password_expires,omitempty"`
	CreatedAt            time.Time          `bson:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at"`
}

func (m *mongoUser) toEntity() *entity.User {
	return &entity.User{
		ID:                   m.ID.Hex(),
		Name:                 m.Name,
		Email:                m.Email,
		PasswordHash:         m.Password,
		Role:                 entity.Role(m.Role),
		ResetPasswordToken:   m.ResetPasswordToken,
		ResetPasswordExpires: m.ResetPasswordExpires,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func userFromEntity(e *entity.User) (*mongoUser, error) {
	id, err := optionalObjectID(e.ID)
	if err != nil {
		return nil, err
	}
	return &mongoUser{
		ID:                   id,
		Name:                 e.Name,
		Email:                e.Email,
		Password:             e.PasswordHash,
		Role:                 string(e.Role),
		ResetPasswordToken:   e.ResetPasswordToken,
		ResetPasswordExpires: e.ResetPasswordExpires,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}, nil
}

type mongoProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Brand       string             `bson:"brand"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Stock       int                `bson:"stock"`
	Images      []string           `bson:"images"`
	Sizes       []string           `bson:"sizes"`
	Gender      string             `bson:"gender"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (m *mongoProduct) toEntity() *entity.Product {
	return &entity.Product{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Description: m.Description,
		Brand:       m.Brand,
		Category:    m.Category,
		Price:       m.Price,
		Stock:       m.Stock,
		Images:      nonNil(m.Images),
		Sizes:       nonNil(m.Sizes),
		Gender:      m.Gender,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func productFromEntity(e *entity.Product) (*mongoProduct, error) {
	id, err := optionalObjectID(e.ID)
	if err != nil {
		return nil, err
	}
	return &mongoProduct{
		ID:          id,
		Name:        e.Name,
		Description: e.Description,
		Brand:       e.Brand,
		Category:    e.Category,
		Price:       e.Price,
		Stock:       e.Stock,
		Images:      nonNil(e.Images),
		Sizes:       nonNil(e.Sizes),
		Gender:      e.Gender,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}, nil
}

type mongoOrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id"`
	Name      string             `bson:"name"`
	Image     string             `bson:"image"`
	Price     float64            `bson:"price"`
	Quantity  int                `bson:"quantity"`
	Size      string             `bson:"size"`
}

type mongoShippingAddress struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

type mongoPaymentResult struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

type mongoOrder struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	UserID          primitive.ObjectID   `bson:"user_id"`
	Items           []mongoOrderItem     `bson:"order_items"`
	ShippingAddress mongoShippingAddress `bson:"shipping_address"`
	ItemsPrice      float64              `bson:"items_price"`
	TotalPrice      float64              `bson:"total_price"`
	IsPaid          bool                 `bson:"is_paid"`
	PaidAt          *time.Time           `bson:"paid_at,omitempty"`
	PaymentResult   *mongoPaymentResult  `bson:"payment_result,omitempty"`
	IsDelivered     bool                 `bson:"is_delivered"`
	DeliveredAt     *time.Time           `bson:"delivered_at,omitempty"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

func (m *mongoOrder) toEntity() *entity.Order {
	items := make([]entity.OrderItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID.Hex(),
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
		})
	}
	o := &entity.Order{
		ID:     m.ID.Hex(),
		UserID: m.UserID.Hex(),
		Items:  items,
		ShippingAddress: entity.ShippingAddress{
			Address:    m.ShippingAddress.Address,
			City:       m.ShippingAddress.City,
			PostalCode: m.ShippingAddress.PostalCode,
			Country:    m.ShippingAddress.Country,
		},
		ItemsPrice:  m.ItemsPrice,
		TotalPrice:  m.TotalPrice,
		IsPaid:      m.IsPaid,
		PaidAt:      m.PaidAt,
		IsDelivered: m.IsDelivered,
		DeliveredAt: m.DeliveredAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.PaymentResult != nil {
		o.PaymentResult = &entity.PaymentResult{
			ID:           m.PaymentResult.ID,
			Status:       m.PaymentResult.Status,
			UpdateTime:   m.PaymentResult.UpdateTime,
			EmailAddress: m.PaymentResult.EmailAddress,
		}
	}
	return o
}

func orderFromEntity(e *entity.Order) (*mongoOrder, error) {
	id, err := optionalObjectID(e.ID)
	if err != nil {
		return nil, err
	}
	userID, err := toObjectID(e.UserID)
	if err != nil {
		return nil, fmt.Errorf("order user: %w", err)
	}

	items := make([]mongoOrderItem, 0, len(e.Items))
	for _, it := range e.Items {
		productID, err := toObjectID(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("order item product: %w", err)
		}
		items = append(items, mongoOrderItem{
			ProductID: productID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
		})
	}

	m := &mongoOrder{
		ID:     id,
		UserID: userID,
		Items:  items,
		ShippingAddress: mongoShippingAddress{
			Address:    e.ShippingAddress.Address,
			City:       e.ShippingAddress.City,
			PostalCode: e.ShippingAddress.PostalCode,
			Country:    e.ShippingAddress.Country,
		},
		ItemsPrice:  e.ItemsPrice,
		TotalPrice:  e.TotalPrice,
		IsPaid:      e.IsPaid,
		PaidAt:      e.PaidAt,
		IsDelivered: e.IsDelivered,
		DeliveredAt: e.DeliveredAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.PaymentResult != nil {
		m.PaymentResult = paymentResultFromEntity(*e.PaymentResult)
	}
	return m, nil
}

func paymentResultFromEntity(r entity.PaymentResult) *mongoPaymentResult {
	return &mongoPaymentResult{
		ID:           r.ID,
		Status:       r.Status,
		UpdateTime:   r.UpdateTime,
		EmailAddress: r.EmailAddress,
	}
}

func toObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return oid, nil
}

func optionalObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return toObjectID(id)
}

// toObjectIDs drops malformed ids and duplicates.
func toObjectIDs(ids []string) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		if _, ok := seen[oid]; ok {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
