package handlers

import (
	"strings"

	"legalconnect/internal/models"
	"legalconnect/internal/services/registry"
	"legalconnect/internal/services/router"
	"legalconnect/internal/utils"
	"legalconnect/internal/utils/pagination"
	"legalconnect/internal/utils/response"
	"legalconnect/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type PractitionerHandler struct {
	registryService registry.Service
	routerService   router.Service
}

func NewPractitionerHandler(registryService registry.Service, routerService router.Service) *PractitionerHandler {
	return &PractitionerHandler{
		registryService: registryService,
		routerService:   routerService,
	}
}

func (h *PractitionerHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Name           string   `json:"name" validate:"required,max=120"`
		Email          string   `json:"email" validate:"required,email"`
		Phone          string   `json:"phone" validate:"required"`
		City           string   `json:"city" validate:"required"`
		ExpertiseTags  []string `json:"expertise_tags" validate:"required,min=1,max=12,dive,expertise_tag"`
		CommissionRate int      `json:"commission_rate" validate:"required,min=10,max=30"`
	}

	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	p, err := h.registryService.Register(c.Context(), registry.RegisterRequest{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		City:           input.City,
		ExpertiseTags:  input.ExpertiseTags,
		CommissionRate: input.CommissionRate,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Practitioner registered, verification pending", p)
}

func (h *PractitionerHandler) ListPractitioners(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	list, total, err := h.registryService.List(c.Context(), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return serviceError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, list))
}

func (h *PractitionerHandler) GetPractitioner(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	p, err := h.registryService.Get(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Practitioner retrieved successfully", p)
}

// Match runs the case router and returns the ranked candidate roster for an
// expertise tag and city.
func (h *PractitionerHandler) Match(c *fiber.Ctx) error {
	expertise := c.Query("expertise")
	city := c.Query("city")
	if expertise == "" || city == "" {
		return response.BadRequest(c, "expertise and city are required")
	}

	candidates, err := h.routerService.Match(c.Context(), expertise, city)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Candidates ranked", candidates)
}

func (h *PractitionerHandler) ReviewVerification(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	var input struct {
		Decision string `json:"decision" validate:"required,oneof=approve reject"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	p, err := h.registryService.ReviewVerification(c.Context(), uint(id), input.Decision == "approve")
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Verification reviewed", p)
}

func (h *PractitionerHandler) UpdateCommissionRate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	var input struct {
		Rate int `json:"rate" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	p, err := h.registryService.UpdateCommissionRate(c.Context(), uint(id), input.Rate)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Commission rate updated", p)
}

func (h *PractitionerHandler) Suspend(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	p, err := h.registryService.Suspend(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Practitioner suspended", p)
}

func (h *PractitionerHandler) SetDoNotDisturb(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	// Practitioners may only flip their own availability; operators anyone's.
	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if claims.Role == "practitioner" && claims.ActorID != uint(id) {
		return response.Forbidden(c, "cannot change another practitioner's availability")
	}

	var input struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	p, err := h.registryService.SetDoNotDisturb(c.Context(), uint(id), input.Enabled)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Availability updated", p)
}

func (h *PractitionerHandler) AddBankAccount(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if claims.Role == "practitioner" && claims.ActorID != uint(id) {
		return response.Forbidden(c, "cannot add a bank account for another practitioner")
	}

	var input struct {
		BankName      string `json:"bank_name" validate:"required"`
		IFSC          string `json:"ifsc" validate:"required,ifsc"`
		AccountHolder string `json:"account_holder" validate:"required"`
		AccountNumber string `json:"account_number" validate:"required,min=6,max=24"`
		MakeDefault   bool   `json:"make_default"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if errs := validation.ValidateStruct(input); len(errs) > 0 {
		return response.ValidationError(c, strings.Join(errs, "; "))
	}

	acct, err := h.registryService.AddBankAccount(c.Context(), uint(id), registry.BankAccountRequest{
		BankName:      input.BankName,
		IFSC:          input.IFSC,
		AccountHolder: input.AccountHolder,
		AccountNumber: input.AccountNumber,
		MakeDefault:   input.MakeDefault,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return response.Success(c, "Bank account added", bankAccountView(acct))
}

func (h *PractitionerHandler) ListBankAccounts(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid practitioner ID")
	}

	claims, err := utils.GetActorClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if claims.Role == "practitioner" && claims.ActorID != uint(id) {
		return response.Forbidden(c, "cannot view another practitioner's bank accounts")
	}

	accts, err := h.registryService.ListBankAccounts(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]fiber.Map, 0, len(accts))
	for _, acct := range accts {
		views = append(views, bankAccountView(acct))
	}
	return response.Success(c, "Bank accounts retrieved successfully", views)
}

// bankAccountView shapes a bank account for responses. The sealed number
// never leaves the database; only the masked form does.
func bankAccountView(acct *models.BankAccount) fiber.Map {
	return fiber.Map{
		"id":             acct.ID,
		"bank_name":      acct.BankName,
		"ifsc":           acct.IFSC,
		"account_holder": acct.AccountHolder,
		"account_number": utils.MaskedAccount(acct.LastFour),
		"is_default":     acct.IsDefault,
	}
}
