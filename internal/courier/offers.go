package courier

// Offer type constants
const (
	OfferTypeMotoCourier = "moto_entregador"
	OfferTypeWendyShop   = "wendy_shop"
)

// DeliveryOffer is an immutable candidate delivery presented to an online
// courier.
type DeliveryOffer struct {
	ID            uint   `json:"id"`
	Type          string `json:"type"`
	Pickup        string `json:"pickup"`
	Dropoff       string `json:"delivery"`
	Distance      string `json:"distance"`
	EstimatedTime string `json:"estimatedTime"`
	Payment       string `json:"payment"`
	PaymentMethod string `json:"paymentMethod"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerID    uint   `json:"customer_id"`
	Items         string `json:"items"`
	Instructions  string `json:"instructions,omitempty"`
}

// staticOffers is the candidate set shown to every online courier. There is
// no server-side matching; the feed is this list or nothing.
var staticOffers = []DeliveryOffer{
	{
		ID:            1,
		Type:          OfferTypeMotoCourier,
		Pickup:        "Rua das Flores, 123",
		Dropoff:       "Av. Central, 456",
		Distance:      "2.5 km",
		EstimatedTime: "15 min",
		Payment:       "R$ 12,00",
		PaymentMethod: "Pix",
		CustomerName:  "Maria Silva",
		CustomerPhone: "(48) 99999-1234",
		CustomerID:    1,
		Items:         "Documentos",
		Instructions:  "Entregar no apartamento 302, interfone 302",
	},
	{
		ID:            2,
		Type:          OfferTypeWendyShop,
		Pickup:        "TechStore - Shopping Center",
		Dropoff:       "Rua dos Pinheiros, 789",
		Distance:      "3.8 km",
		EstimatedTime: "20 min",
		Payment:       "R$ 18,50",
		PaymentMethod: "Cartão",
		CustomerName:  "João Santos",
		CustomerPhone: "(48) 99999-5678",
		CustomerID:    4,
		Items:         "Smartphone Samsung Galaxy",
	},
	{
		ID:            3,
		Type:          OfferTypeMotoCourier,
		Pickup:        "Farmácia Central",
		Dropoff:       "Bairro Novo, 321",
		Distance:      "1.2 km",
		EstimatedTime: "8 min",
		Payment:       "R$ 8,00",
		PaymentMethod: "Dinheiro",
		CustomerName:  "Ana Costa",
		CustomerPhone: "(48) 99999-9012",
		CustomerID:    5,
		Items:         "Medicamentos",
	},
}

// StaticOffers returns a copy of the candidate offer list
func StaticOffers() []DeliveryOffer {
	out := make([]DeliveryOffer, len(staticOffers))
	copy(out, staticOffers)
	return out
}
