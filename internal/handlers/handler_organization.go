package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerpro/ledgerpro_backend/internal/core/ports/services"
	"github.com/ledgerpro/ledgerpro_backend/internal/dto"
)

// organizationHandler handles HTTP requests related to organizations and memberships.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

// registerOrganizationRoutes registers routes related to organizations.
func registerOrganizationRoutes(rg *gin.RouterGroup, orgService portssvc.OrganizationSvcFacade) {
	h := &organizationHandler{orgService: orgService}

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listUserOrganizations)
		orgs.GET("/:org_id", h.getOrganization)
		orgs.PUT("/:org_id", h.updateOrganization)
		orgs.DELETE("/:org_id", h.deactivateOrganization)

		members := orgs.Group("/:org_id/members")
		{
			members.GET("", h.listMembers)
			members.POST("", h.addMember)
			members.DELETE("/:user_id", h.removeMember)
		}
	}
}

// createOrganization godoc
// @Summary Create an organization
// @Description Creates an organization with the caller as admin.
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	org, err := h.orgService.CreateOrganization(c.Request.Context(), req.Name, userID)
	if err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// listUserOrganizations godoc
// @Summary List the caller's organizations
// @Tags organizations
// @Produce json
// @Success 200 {array} dto.OrganizationResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listUserOrganizations(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	orgs, err := h.orgService.ListUserOrganizations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list organizations")
		return
	}
	c.JSON(http.StatusOK, dto.ToListOrganizationResponse(orgs))
}

// getOrganization godoc
// @Summary Get an organization
// @Tags organizations
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), c.Param("org_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// updateOrganization godoc
// @Summary Update an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param organization body dto.UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id} [put]
func (h *organizationHandler) updateOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	org, err := h.orgService.UpdateOrganization(c.Request.Context(), c.Param("org_id"), req.Name, userID)
	if err != nil {
		respondError(c, err, "Failed to update organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// deactivateOrganization godoc
// @Summary Deactivate an organization
// @Tags organizations
// @Param org_id path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id} [delete]
func (h *organizationHandler) deactivateOrganization(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.orgService.DeactivateOrganization(c.Request.Context(), c.Param("org_id"), userID); err != nil {
		respondError(c, err, "Failed to deactivate organization")
		return
	}
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List organization members
// @Tags organizations
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {array} dto.MemberResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/members [get]
func (h *organizationHandler) listMembers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	members, err := h.orgService.ListOrganizationMembers(c.Request.Context(), c.Param("org_id"), userID)
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMemberResponse(members))
}

// addMember godoc
// @Summary Add a member to an organization
// @Description Admin only. Adds an existing user with the given role.
// @Tags organizations
// @Accept json
// @Param org_id path string true "Organization ID"
// @Param member body dto.AddMemberRequest true "Member details"
// @Success 201 "Created"
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "User is already a member"
// @Security BearerAuth
// @Router /organizations/{org_id}/members [post]
func (h *organizationHandler) addMember(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := h.orgService.AddMember(c.Request.Context(), userID, req.UserID, c.Param("org_id"), req.Role); err != nil {
		respondError(c, err, "Failed to add member")
		return
	}
	c.Status(http.StatusCreated)
}

// removeMember godoc
// @Summary Remove a member from an organization
// @Description Admin only.
// @Tags organizations
// @Param org_id path string true "Organization ID"
// @Param user_id path string true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /organizations/{org_id}/members/{user_id} [delete]
func (h *organizationHandler) removeMember(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.orgService.RemoveMember(c.Request.Context(), userID, c.Param("user_id"), c.Param("org_id")); err != nil {
		respondError(c, err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
