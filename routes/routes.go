package routes

import (
	"fmt"
	"mediease/controllers"
	"mediease/middleware"
	"mediease/models"
	"net/http"

	"github.com/gorilla/mux"
)

// Route is one endpoint of the API.
type Route struct {
	Name    string
	Method  string
	Path    string
	Policy  Policy
	Handler http.HandlerFunc

	// MatchEmail names a path variable that must equal the token email.
	MatchEmail string
}

// Controllers groups the handlers the route table dispatches to.
type Controllers struct {
	Tokens         *controllers.TokenController
	Users          *controllers.UserController
	Medicines      *controllers.MedicineController
	Categories     *controllers.CategoryController
	Carts          *controllers.CartController
	Advertisements *controllers.AdvertisementController
	Payments       *controllers.PaymentController
	Stats          *controllers.StatsController
}

// Gates holds the middleware the policies are built from.
type Gates struct {
	Auth   *middleware.Authenticator
	Seller *middleware.RoleGate
	Admin  *middleware.RoleGate
}

// NewGates builds the token check and both role gates over one user lookup.
func NewGates(tokens middleware.TokenParser, users middleware.UserFinder) Gates {
	return Gates{
		Auth:   middleware.NewAuthenticator(tokens),
		Seller: middleware.NewRoleGate(users, models.RoleSeller),
		Admin:  middleware.NewRoleGate(users, models.RoleAdmin),
	}
}

const cartIDPath = "/carts/{id:[0-9a-fA-F]{24}}"

// Table lists every route with its default policy. Order matters where two
// paths overlap: the cart id form is registered before the email form.
func Table(c Controllers) []Route {
	return []Route{
		{Name: "root", Method: http.MethodGet, Path: "/", Policy: Public, Handler: controllers.Root},
		{Name: "issueToken", Method: http.MethodPost, Path: "/jwt", Policy: Public, Handler: c.Tokens.IssueToken},

		// Users
		{Name: "listUsers", Method: http.MethodGet, Path: "/users", Policy: Admin, Handler: c.Users.ListUsers},
		{Name: "isAdmin", Method: http.MethodGet, Path: "/users/admin/{email}", Policy: Token, MatchEmail: "email", Handler: c.Users.IsAdmin},
		{Name: "isSeller", Method: http.MethodGet, Path: "/users/seller/{email}", Policy: Token, MatchEmail: "email", Handler: c.Users.IsSeller},
		{Name: "createUser", Method: http.MethodPost, Path: "/users", Policy: Public, Handler: c.Users.CreateUser},
		{Name: "deleteUser", Method: http.MethodDelete, Path: "/users/{id}", Policy: Admin, Handler: c.Users.DeleteUser},
		{Name: "makeAdmin", Method: http.MethodPatch, Path: "/users/admin/{id}", Policy: Admin, Handler: c.Users.SetRole(models.RoleAdmin)},
		{Name: "makeSeller", Method: http.MethodPatch, Path: "/users/seller/{id}", Policy: Admin, Handler: c.Users.SetRole(models.RoleSeller)},
		{Name: "makeUser", Method: http.MethodPatch, Path: "/users/user/{id}", Policy: Admin, Handler: c.Users.SetRole(models.RoleUser)},

		// Medicines
		{Name: "listMedicines", Method: http.MethodGet, Path: "/medicines", Policy: Public, Handler: c.Medicines.ListMedicines},
		{Name: "getMedicine", Method: http.MethodGet, Path: "/medicines/{id}", Policy: Public, Handler: c.Medicines.GetMedicine},
		{Name: "createMedicine", Method: http.MethodPost, Path: "/medicines", Policy: Seller, Handler: c.Medicines.CreateMedicine},
		{Name: "discountedMedicines", Method: http.MethodGet, Path: "/discounted_medicines", Policy: Public, Handler: c.Medicines.DiscountedMedicines},

		// Categories
		{Name: "listCategories", Method: http.MethodGet, Path: "/categories", Policy: Public, Handler: c.Categories.ListCategories},
		{Name: "getCategory", Method: http.MethodGet, Path: "/categories/{id}", Policy: Public, Handler: c.Categories.GetCategory},
		{Name: "createCategory", Method: http.MethodPost, Path: "/categories", Policy: Admin, Handler: c.Categories.CreateCategory},
		{Name: "updateCategory", Method: http.MethodPatch, Path: "/categories/{id}", Policy: Admin, Handler: c.Categories.UpdateCategory},
		{Name: "deleteCategory", Method: http.MethodDelete, Path: "/categories/{id}", Policy: Admin, Handler: c.Categories.DeleteCategory},

		// Carts
		{Name: "listCarts", Method: http.MethodGet, Path: "/carts", Policy: Public, Handler: c.Carts.GetCart},
		{Name: "addCart", Method: http.MethodPost, Path: "/carts", Policy: Public, Handler: c.Carts.AddToCart},
		{Name: "updateCart", Method: http.MethodPatch, Path: "/carts/{id}", Policy: Public, Handler: c.Carts.UpdateQuantity},
		{Name: "deleteCart", Method: http.MethodDelete, Path: cartIDPath, Policy: Public, Handler: c.Carts.RemoveFromCart},
		{Name: "clearCart", Method: http.MethodDelete, Path: "/carts/{email}", Policy: Public, Handler: c.Carts.ClearCart},

		// Advertisements
		{Name: "listAdvertisements", Method: http.MethodGet, Path: "/advertisements", Policy: Admin, Handler: c.Advertisements.ListAdvertisements},
		{Name: "sellerAdvertisements", Method: http.MethodGet, Path: "/advertisements/{email}", Policy: Seller, MatchEmail: "email", Handler: c.Advertisements.SellerAdvertisements},
		{Name: "createAdvertisement", Method: http.MethodPost, Path: "/advertisements", Policy: Seller, Handler: c.Advertisements.CreateAdvertisement},
		{Name: "updateAdvertisement", Method: http.MethodPatch, Path: "/advertisements/{id}", Policy: Admin, Handler: c.Advertisements.UpdateStatus},
		{Name: "activeAdvertisements", Method: http.MethodGet, Path: "/activeAdvertisements", Policy: Public, Handler: c.Advertisements.ActiveAdvertisements},

		// Payments
		{Name: "createPaymentIntent", Method: http.MethodPost, Path: "/create-payment-intent", Policy: Public, Handler: c.Payments.CreatePaymentIntent},
		{Name: "listPayments", Method: http.MethodGet, Path: "/payments", Policy: Admin, Handler: c.Payments.ListPayments},
		{Name: "userPayments", Method: http.MethodGet, Path: "/payments/{email}", Policy: Token, MatchEmail: "email", Handler: c.Payments.UserPayments},
		{Name: "createPayment", Method: http.MethodPost, Path: "/payments", Policy: Token, Handler: c.Payments.CreatePayment},
		{Name: "settlePayment", Method: http.MethodPatch, Path: "/payments/{id}", Policy: Admin, Handler: c.Payments.SettlePayment},
		{Name: "sellerPayments", Method: http.MethodGet, Path: "/seller-payments/{email}", Policy: Seller, MatchEmail: "email", Handler: c.Stats.SellerSales},

		// Stats
		{Name: "sellerStats", Method: http.MethodGet, Path: "/seller-stats", Policy: Seller, Handler: c.Stats.RevenueStats},
		{Name: "adminStats", Method: http.MethodGet, Path: "/admin-stats", Policy: Admin, Handler: c.Stats.RevenueStats},
		{Name: "salesInfo", Method: http.MethodGet, Path: "/sellsInfo", Policy: Admin, Handler: c.Stats.SalesInfo},
		{Name: "paymentStats", Method: http.MethodGet, Path: "/payment-stats", Policy: Admin, Handler: c.Stats.CategoryStats},
	}
}

// RegisterRoutes sets up all the routes for the application. overrides maps
// route names to policy names and replaces the defaults from Table.
func RegisterRoutes(router *mux.Router, c Controllers, gates Gates, overrides map[string]string) error {
	table := Table(c)
	if err := applyOverrides(table, overrides); err != nil {
		return err
	}

	for _, route := range table {
		router.Handle(route.Path, chain(route, gates)).Methods(route.Method).Name(route.Name)
	}
	return nil
}

func applyOverrides(table []Route, overrides map[string]string) error {
	index := make(map[string]int, len(table))
	for i, route := range table {
		index[route.Name] = i
	}

	for name, value := range overrides {
		i, ok := index[name]
		if !ok {
			return fmt.Errorf("route policy override for unknown route %q", name)
		}
		policy, err := ParsePolicy(value)
		if err != nil {
			return fmt.Errorf("route %s: %w", name, err)
		}
		table[i].Policy = policy
	}
	return nil
}

// chain wraps the handler as token check, role gate, identity match.
func chain(route Route, gates Gates) http.Handler {
	var h http.Handler = route.Handler

	if route.MatchEmail != "" {
		h = middleware.MatchEmail(route.MatchEmail)(h)
	}
	switch route.Policy {
	case Seller:
		h = gates.Seller.Require(h)
	case Admin:
		h = gates.Admin.Require(h)
	}
	if route.Policy.needsToken() || route.MatchEmail != "" {
		h = gates.Auth.Authenticate(h)
	}
	return h
}
