package repository

import (
	"encoding/json"

	addressResponse "github.com/Alturino/grocery/address/pkg/response"
	cartResponse "github.com/Alturino/grocery/cart/pkg/response"
	helpResponse "github.com/Alturino/grocery/help/pkg/response"
	orderResponse "github.com/Alturino/grocery/order/pkg/response"
	userResponse "github.com/Alturino/grocery/user/pkg/response"
	wishlistResponse "github.com/Alturino/grocery/wishlist/pkg/response"
)

func (i CartItem) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		UserID:    i.UserID,
		ProductID: i.ProductID,
		Title:     i.Title,
		Price:     DecimalFromNumeric(i.Price),
		Image:     i.Image,
		Quantity:  i.Quantity,
		CreatedAt: i.CreatedAt.Time,
		UpdatedAt: i.UpdatedAt.Time,
	}
}

func (i OrderItem) Response() orderResponse.OrderItem {
	return orderResponse.OrderItem{
		ID:        i.ID,
		OrderID:   i.OrderID,
		LineNo:    i.LineNo,
		ProductID: i.ProductID,
		Title:     i.Title,
		Price:     DecimalFromNumeric(i.Price),
		Quantity:  i.Quantity,
		Image:     i.Image,
	}
}

func (o Order) Response(items []OrderItem) orderResponse.Order {
	orderItems := make([]orderResponse.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, item.Response())
	}
	return orderResponse.Order{
		ID:             o.ID,
		UserID:         o.UserID,
		AddressID:      o.AddressID,
		PaymentMethod:  o.PaymentMethod,
		CouponCode:     o.CouponCode.String,
		Subtotal:       DecimalFromNumeric(o.Subtotal),
		DiscountAmount: DecimalFromNumeric(o.DiscountAmount),
		Shipping:       DecimalFromNumeric(o.Shipping),
		Tax:            DecimalFromNumeric(o.Tax),
		Total:          DecimalFromNumeric(o.Total),
		Status:         o.Status,
		CreatedAt:      o.CreatedAt.Time,
		Items:          orderItems,
	}
}

func (o FindOrdersByUserIdRow) Response() (orderResponse.Order, error) {
	orderItems := []orderResponse.OrderItem{}
	if err := json.Unmarshal(o.OrderItems, &orderItems); err != nil {
		return orderResponse.Order{}, err
	}
	return orderResponse.Order{
		ID:             o.ID,
		UserID:         o.UserID,
		AddressID:      o.AddressID,
		PaymentMethod:  o.PaymentMethod,
		CouponCode:     o.CouponCode.String,
		Subtotal:       DecimalFromNumeric(o.Subtotal),
		DiscountAmount: DecimalFromNumeric(o.DiscountAmount),
		Shipping:       DecimalFromNumeric(o.Shipping),
		Tax:            DecimalFromNumeric(o.Tax),
		Total:          DecimalFromNumeric(o.Total),
		Status:         o.Status,
		CreatedAt:      o.CreatedAt.Time,
		Items:          orderItems,
	}, nil
}

func (u User) Response() userResponse.User {
	return userResponse.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Time,
	}
}

func (a Address) Response() addressResponse.Address {
	return addressResponse.Address{
		ID:         a.ID,
		UserID:     a.UserID,
		Label:      a.Label,
		FullName:   a.FullName,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		CreatedAt:  a.CreatedAt.Time,
		UpdatedAt:  a.UpdatedAt.Time,
	}
}

func (w WishlistItem) Response() wishlistResponse.WishlistItem {
	return wishlistResponse.WishlistItem{
		ID:        w.ID,
		UserID:    w.UserID,
		ProductID: w.ProductID,
		Title:     w.Title,
		Image:     w.Image,
		Price:     DecimalFromNumeric(w.Price),
		CreatedAt: w.CreatedAt.Time,
	}
}

func (h HelpRequest) Response() helpResponse.HelpRequest {
	return helpResponse.HelpRequest{
		ID:        h.ID,
		UserID:    h.UserID,
		Name:      h.Name,
		Email:     h.Email,
		Message:   h.Message,
		Status:    h.Status,
		CreatedAt: h.CreatedAt.Time,
	}
}
