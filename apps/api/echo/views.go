package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/charity"
	"github.com/trezcool/koperasi/core/dashboard"
	"github.com/trezcool/koperasi/core/guard"
	"github.com/trezcool/koperasi/core/loan"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/payment"
	"github.com/trezcool/koperasi/core/product"
	"github.com/trezcool/koperasi/core/profile"
)

type (
	PaymentsView struct {
		Payments []payment.Payment `json:"payments"`
		Summary  payment.Summary   `json:"summary"`
	}

	CharityView struct {
		Campaigns []charity.Campaign `json:"campaigns"`
		Donations []charity.Donation `json:"donations"`
	}

	InfoView struct {
		FAQs []loan.FAQ `json:"faqs"`
	}

	LikeResponse struct {
		ID    string `json:"id"`
		Liked bool   `json:"is_liked"`
		Likes int    `json:"likes"`
	}
)

type viewsApi struct {
	validate  *validator.Validate
	dashboard *dashboard.Service
	members   *member.Service
	payments  *payment.Service
	products  *product.Service
	charity   *charity.Service
	loans     *loan.Service
	profiles  *profile.Service
}

func registerViewsAPI(g *echo.Group, deps ServerDeps) {
	api := viewsApi{
		validate:  deps.Validate,
		dashboard: deps.DashboardSvc,
		members:   deps.MemberSvc,
		payments:  deps.PaymentSvc,
		products:  deps.ProductSvc,
		charity:   deps.CharitySvc,
		loans:     deps.LoanSvc,
		profiles:  deps.ProfileSvc,
	}
	view := func(route string) *echo.Group {
		return g.Group(route, guardMiddleware(deps.Guard, route))
	}

	view(guard.RouteDashboard).GET("", api.overview)

	mg := view(guard.RouteMembers)
	mg.GET("", api.queryMembers)
	mg.POST("", api.createMember)
	mg.GET("/provinces", api.queryProvinces)
	mg.GET("/:id", api.retrieveMember)

	pg := view(guard.RouteProducts)
	pg.GET("", api.queryProducts)
	pg.POST("", api.createProduct)
	pg.GET("/categories", api.queryCategories)
	pg.POST("/:id/like", api.toggleLike)

	yg := view(guard.RoutePayments)
	yg.GET("", api.queryPayments)
	yg.POST("", api.pay)

	cg := view(guard.RouteCharity)
	cg.GET("", api.charityView)
	cg.GET("/:id", api.retrieveCampaign)
	cg.POST("/:id/donations", api.donate)

	ig := view(guard.RouteInfo)
	ig.GET("", api.info)
	ig.GET("/loans", api.queryLoans)
	ig.GET("/loans/:id", api.retrieveLoan)

	fg := view(guard.RouteProfile)
	fg.GET("", api.retrieveProfile)
	fg.PUT("", api.updateProfile)
}

// Handlers

func (api *viewsApi) overview(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	ov, err := api.dashboard.Overview(p)
	if err != nil {
		return errors.Wrap(err, "building overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *viewsApi) queryMembers(ctx echo.Context) error {
	filter := new(member.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []member.Member{})
	}
	members, err := api.members.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *viewsApi) createMember(ctx echo.Context) error {
	var data member.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	m, err := api.members.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating member")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *viewsApi) queryProvinces(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, member.Provinces)
}

func (api *viewsApi) retrieveMember(ctx echo.Context) error {
	m, err := api.members.Get(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting member")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *viewsApi) queryProducts(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	filter := new(product.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []product.Product{})
	}
	products, err := api.products.Query(p.ID, *filter)
	if err != nil {
		return errors.Wrap(err, "querying products")
	}
	return ctx.JSON(http.StatusOK, products)
}

func (api *viewsApi) createProduct(ctx echo.Context) error {
	var data product.NewProduct
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProduct")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	p, err := api.products.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating product")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *viewsApi) queryCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, append([]string{product.CategoryAll}, product.Categories...))
}

func (api *viewsApi) toggleLike(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	prod, err := api.products.ToggleLike(p.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "toggling like")
	}
	return ctx.JSON(http.StatusOK, LikeResponse{ID: prod.ID, Liked: prod.Liked, Likes: prod.Likes})
}

func (api *viewsApi) queryPayments(ctx echo.Context) error {
	filter := new(payment.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, PaymentsView{Payments: []payment.Payment{}})
	}
	payments, err := api.payments.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying payments")
	}
	summary, err := api.payments.Summarize(*filter)
	if err != nil {
		return errors.Wrap(err, "summarizing payments")
	}
	return ctx.JSON(http.StatusOK, PaymentsView{Payments: payments, Summary: summary})
}

func (api *viewsApi) pay(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	var data payment.NewPayment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	pay, err := api.payments.Pay(p, data)
	if err != nil {
		return errors.Wrap(err, "paying dues")
	}
	return ctx.JSON(http.StatusCreated, pay)
}

func (api *viewsApi) charityView(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	campaigns, err := api.charity.Campaigns(ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "querying campaigns")
	}
	donations, err := api.charity.Donations(p)
	if err != nil {
		return errors.Wrap(err, "querying donations")
	}
	return ctx.JSON(http.StatusOK, CharityView{Campaigns: campaigns, Donations: donations})
}

func (api *viewsApi) retrieveCampaign(ctx echo.Context) error {
	c, err := api.charity.Campaign(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting campaign")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *viewsApi) donate(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	var data charity.NewDonation
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDonation")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	d, err := api.charity.Donate(p, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "donating")
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *viewsApi) info(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, InfoView{FAQs: api.loans.FAQ()})
}

// queryLoans lists every application to admins and their own ones to members.
func (api *viewsApi) queryLoans(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	filter := new(loan.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []loan.Application{})
	}
	filter.MemberNumber = ""
	if !p.Role.IsAdmin() {
		number, err := api.memberNumber(p)
		if err != nil {
			return err
		}
		if number == "" {
			return ctx.JSON(http.StatusOK, []loan.Application{})
		}
		filter.MemberNumber = number
	}

	apps, err := api.loans.Query(*filter)
	if err != nil {
		return errors.Wrap(err, "querying loan applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *viewsApi) retrieveLoan(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	a, err := api.loans.Get(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting loan application")
	}
	if !p.Role.IsAdmin() {
		number, err := api.memberNumber(p)
		if err != nil {
			return err
		}
		if number == "" || a.MemberNumber != number {
			return errHttpNotFound
		}
	}
	return ctx.JSON(http.StatusOK, a)
}

// memberNumber returns the member number on the profile of p, empty when it has none.
func (api *viewsApi) memberNumber(p auth.Principal) (string, error) {
	prof, err := api.profiles.Get(p)
	if err != nil {
		return "", errors.Wrap(err, "getting profile")
	}
	return prof.MemberNumber, nil
}

func (api *viewsApi) retrieveProfile(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	prof, err := api.profiles.Get(p)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *viewsApi) updateProfile(ctx echo.Context) error {
	p, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	var data profile.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	prof, err := api.profiles.Update(p, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}
