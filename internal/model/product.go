package model

import "github.com/google/uuid"

// Product is one catalog entry. Price and Stock are kept as entered text.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       string
	Code        string
	Stock       string
}

// ProductField names an editable product attribute.
type ProductField string

const (
	FieldName        ProductField = "name"
	FieldDescription ProductField = "description"
	FieldPrice       ProductField = "price"
	FieldCode        ProductField = "code"
	FieldStock       ProductField = "stock"
)

// ProductFields lists the editable attributes in display order.
var ProductFields = []ProductField{FieldName, FieldDescription, FieldPrice, FieldCode, FieldStock}

// ProductsPath returns the catalog collection of uid.
func ProductsPath(uid uuid.UUID) Path {
	return Path("products").Child(uid.String())
}

// ProductPath returns the record path of a single product.
func ProductPath(uid uuid.UUID, productID string) Path {
	return ProductsPath(uid).Child(productID)
}

// Get returns the value of field.
func (p Product) Get(field ProductField) string {
	switch field {
	case FieldName:
		return p.Name
	case FieldDescription:
		return p.Description
	case FieldPrice:
		return p.Price
	case FieldCode:
		return p.Code
	case FieldStock:
		return p.Stock
	default:
		return ""
	}
}

// With returns a copy of p with field set to value. Unknown fields are ignored.
func (p Product) With(field ProductField, value string) Product {
	switch field {
	case FieldName:
		p.Name = value
	case FieldDescription:
		p.Description = value
	case FieldPrice:
		p.Price = value
	case FieldCode:
		p.Code = value
	case FieldStock:
		p.Stock = value
	}
	return p
}

// Fields returns the stored record of p, without its ID.
func (p Product) Fields() map[string]any {
	return map[string]any{
		string(FieldName):        p.Name,
		string(FieldDescription): p.Description,
		string(FieldPrice):       p.Price,
		string(FieldCode):        p.Code,
		string(FieldStock):       p.Stock,
	}
}

// ProductFromSnapshot reads a product record; the ID is the snapshot key.
func ProductFromSnapshot(s Snapshot) Product {
	return Product{
		ID:          s.Path.Key(),
		Name:        s.Child(string(FieldName)).Text(),
		Description: s.Child(string(FieldDescription)).Text(),
		Price:       s.Child(string(FieldPrice)).Text(),
		Code:        s.Child(string(FieldCode)).Text(),
		Stock:       s.Child(string(FieldStock)).Text(),
	}
}

// ProductsFromSnapshot rebuilds the catalog list from a collection snapshot,
// in store key order. An absent collection yields an empty list.
func ProductsFromSnapshot(s Snapshot) []Product {
	keys := s.ChildKeys()
	products := make([]Product, 0, len(keys))
	for _, k := range keys {
		products = append(products, ProductFromSnapshot(s.Child(k)))
	}
	return products
}
