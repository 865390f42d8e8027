package controller

import (
	"strings"

	"eventhub/core/controller"
	"eventhub/core/errors"
	"eventhub/core/utils"
	"eventhub/modules/auth/dto"
	"eventhub/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	service *service.AuthService
}

func NewAuthController(service *service.AuthService) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Login successful")
}

func (c *AuthController) Logout(ctx echo.Context) error {
	header := ctx.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return c.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing authorization header", nil)
	}

	if appErr := c.service.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Logged out")
}

func (c *AuthController) Me(ctx echo.Context) error {
	tokenData := ctx.Get("token_data")
	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	user, appErr := c.service.GetUserByID(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, dto.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, "User retrieved")
}
