package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-aura/backend/internal/api/dto"
	"github.com/campus-aura/backend/internal/auth"
	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/service"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.SubjectID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseInt(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func eventInput(req dto.EventRequest) service.EventInput {
	in := service.EventInput{
		Title:                req.Title,
		Venue:                req.Venue,
		DateTime:             req.DateTime,
		Description:          req.Description,
		OrganizingDepartment: req.OrganizingDepartment,
		Category:             req.Category,
		Status:               req.Status,
		TicketsAvailable:     req.TicketsAvailable,
		EventImageURLs:       req.EventImageURLs,
	}
	for _, tc := range req.TicketCategories {
		in.TicketCategories = append(in.TicketCategories, domain.TicketCategory(tc))
	}
	for _, p := range req.PastEventDetails {
		in.PastEventDetails = append(in.PastEventDetails, domain.PastEventDetail(p))
	}
	for _, s := range req.SellItems {
		in.SellItems = append(in.SellItems, domain.SellItem(s))
	}
	for _, s := range req.Schedule {
		in.Schedule = append(in.Schedule, domain.ScheduleItem(s))
	}
	if req.AccountDetails != nil {
		ad := domain.AccountDetails(*req.AccountDetails)
		in.AccountDetails = &ad
	}
	return in
}

func eventResponse(e *domain.Event) dto.EventResponse {
	resp := dto.EventResponse{
		ID:                   e.ID,
		CoordinatorID:        e.CoordinatorID,
		Title:                e.Title,
		Venue:                e.Venue,
		DateTime:             e.DateTime,
		Description:          e.Description,
		OrganizingDepartment: e.OrganizingDepartment,
		Category:             e.Category,
		Status:               string(e.Status),
		TicketsAvailable:     e.TicketsAvailable,
		TicketCategories:     make([]dto.TicketCategoryPayload, 0, len(e.TicketCategories)),
		PastEventDetails:     make([]dto.PastEventDetailPayload, 0, len(e.PastEventDetails)),
		EventImageURLs:       e.EventImageURLs,
		SellItems:            make([]dto.SellItemPayload, 0, len(e.SellItems)),
		AttendeeCount:        e.AttendeeCount,
		Schedule:             make([]dto.ScheduleItemPayload, 0, len(e.Schedule)),
		CreatedAt:            timePtr(e.CreatedAt),
		UpdatedAt:            timePtr(e.UpdatedAt),
	}
	if resp.EventImageURLs == nil {
		resp.EventImageURLs = []string{}
	}
	for _, tc := range e.TicketCategories {
		resp.TicketCategories = append(resp.TicketCategories, dto.TicketCategoryPayload(tc))
	}
	for _, p := range e.PastEventDetails {
		resp.PastEventDetails = append(resp.PastEventDetails, dto.PastEventDetailPayload(p))
	}
	for _, s := range e.SellItems {
		resp.SellItems = append(resp.SellItems, dto.SellItemPayload(s))
	}
	for _, s := range e.Schedule {
		resp.Schedule = append(resp.Schedule, dto.ScheduleItemPayload(s))
	}
	if e.AccountDetails != nil {
		ad := dto.AccountDetailsPayload(*e.AccountDetails)
		resp.AccountDetails = &ad
	}
	return resp
}

func eventList(list []*domain.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, eventResponse(e))
	}
	return out
}

func landingEvent(e *domain.Event) dto.LandingEventResponse {
	images := e.EventImageURLs
	if images == nil {
		images = []string{}
	}
	return dto.LandingEventResponse{
		ID:                   e.ID,
		Title:                e.Title,
		Description:          e.Description,
		Venue:                e.Venue,
		DateTime:             e.DateTime,
		EventImageURLs:       images,
		OrganizingDepartment: e.OrganizingDepartment,
		Category:             e.Category,
		AttendeeCount:        e.AttendeeCount,
	}
}

func landingEvents(list []*domain.Event) []dto.LandingEventResponse {
	out := make([]dto.LandingEventResponse, 0, len(list))
	for _, e := range list {
		out = append(out, landingEvent(e))
	}
	return out
}

func eventDetailResponse(d *domain.EventDetail) dto.EventDetailResponse {
	resp := dto.EventDetailResponse{
		LandingEventResponse: landingEvent(d.Event),
		Status:               string(d.Event.Status),
		TicketsAvailable:     d.Event.TicketsAvailable,
		TicketCategories:     make([]dto.TicketCategoryPayload, 0, len(d.Event.TicketCategories)),
		TotalSpots:           d.TotalSpots,
		AvailableSpots:       d.AvailableSpots,
		Schedule:             make([]dto.DetailSlotResponse, 0, len(d.Schedule)),
		GalleryImages:        d.GalleryImages,
		Sponsors:             make([]dto.SponsorResponse, 0, len(d.Sponsors)),
	}
	if resp.GalleryImages == nil {
		resp.GalleryImages = []string{}
	}
	for _, tc := range d.Event.TicketCategories {
		resp.TicketCategories = append(resp.TicketCategories, dto.TicketCategoryPayload(tc))
	}
	for _, s := range d.Schedule {
		resp.Schedule = append(resp.Schedule, dto.DetailSlotResponse(s))
	}
	for _, s := range d.Sponsors {
		resp.Sponsors = append(resp.Sponsors, dto.SponsorResponse(s))
	}
	return resp
}

func adminEventResponse(e domain.AdminEvent) dto.AdminEventResponse {
	return dto.AdminEventResponse{EventResponse: eventResponse(e.Event), CoordinatorName: e.CoordinatorName}
}

func userResponse(u *domain.User) dto.UserResponse {
	resp := dto.UserResponse{
		UID:               u.UID,
		Email:             u.Email,
		Name:              u.Name,
		PhoneNumber:       u.PhoneNumber,
		UserType:          string(u.UserType),
		Role:              string(u.Role),
		IsEmailVerified:   u.IsEmailVerified,
		IsActive:          u.IsActive,
		DegreeProgram:     u.DegreeProgram,
		StudentID:         u.StudentID,
		StudentIDImageURL: u.StudentIDImageURL,
		CreatedAt:         timePtr(u.CreatedAt),
		UpdatedAt:         timePtr(u.UpdatedAt),
	}
	if u.IsStudent() {
		verified := u.VerificationStatus == domain.VerificationVerified
		resp.VerificationStatus = string(u.VerificationStatus)
		resp.IsStudentVerified = &verified
	}
	return resp
}

func userList(list []*domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, userResponse(u))
	}
	return out
}

func coordinatorInput(req dto.CoordinatorRequest) service.CoordinatorInput {
	return service.CoordinatorInput(req)
}

func coordinatorResponse(c *domain.Coordinator) dto.CoordinatorResponse {
	return dto.CoordinatorResponse{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		FullName:          c.FullName(),
		PhoneNumber:       c.PhoneNumber,
		Email:             c.Email,
		Department:        c.Department,
		Degree:            c.Degree,
		ShortIntroduction: c.ShortIntroduction,
		DegreeProgramme:   c.DegreeProgramme,
		Active:            c.Active,
		HasLogin:          c.AuthUID != "",
		EventCount:        c.EventCount,
		CreatedAt:         timePtr(c.CreatedAt),
		UpdatedAt:         timePtr(c.UpdatedAt),
	}
}

func productResponse(p *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		SellerID:    p.SellerID,
		SellerName:  p.SellerName,
		Status:      string(p.Status),
		CreatedAt:   timePtr(p.CreatedAt),
		UpdatedAt:   timePtr(p.UpdatedAt),
		SoldAt:      p.SoldAt,
	}
}

func transactionResponse(t *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		UserID:        t.UserID,
		UserName:      t.UserName,
		EventID:       t.EventID,
		EventName:     t.EventName,
		ProductID:     t.ProductID,
		ProductName:   t.ProductName,
		Amount:        t.Amount,
		PaymentMethod: t.PaymentMethod,
		Status:        string(t.Status),
		CreatedAt:     timePtr(t.CreatedAt),
		CompletedAt:   t.CompletedAt,
	}
}

func transactionList(list []*domain.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, transactionResponse(t))
	}
	return out
}
