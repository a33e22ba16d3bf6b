package user

import (
	"net/http"

	"charter/infras/otel"
	"charter/internal/domains/user/model"
	"charter/internal/domains/user/model/dto"
	"charter/internal/domains/user/service"
	"charter/shared"
	"charter/shared/constant"
	gDto "charter/shared/dto"
	"charter/shared/validator"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.List)
		r.Get("/me", handler.Me)
		r.Get("/{id}", handler.Get)
		r.Patch("/{id}", handler.Update)
		r.Delete("/{id}", handler.Deactivate)
	})
}

// Create
// @Summary Create a user
// @Description Admins create staff accounts (ops, finance, pilot, ...) with an explicit role.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} response.Data[string] "ID of the created user"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Create")
	defer scope.End()

	var req dto.CreateUserRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("role", req.Role).Msg("user not created")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, id)
}

// List
// @Summary List users
// @Tags User
// @Produce json
// @Param pagination query gDto.QueryParams false "Paging and sorting"
// @Param email query string false "Exact email"
// @Param role query string false "Role"
// @Success 200 {object} response.Data[dto.GetUsersResponse]
// @Router /v1/users [get]
// @Security BearerAuth
func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.List")
	defer scope.End()

	params := gDto.QueryParams{}
	params.FromRequest(r, true)

	query := r.URL.Query()
	filter := gDto.WhereEq(model.TableName, map[string]string{
		model.FieldEmail: model.NormalizeEmail(query.Get(model.FieldEmail)),
		model.FieldRole:  query.Get(model.FieldRole),
	})

	users, err := handler.service.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, users)
}

// Me
// @Summary Current user
// @Description Profile of the signed-in caller.
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 401 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Me")
	defer scope.End()

	handler.respondWithUser(w, r.WithContext(ctx), shared.Actor(ctx))
}

// Get
// @Summary Get a user
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse]
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Get")
	defer scope.End()

	handler.respondWithUser(w, r.WithContext(ctx), chi.URLParam(r, constant.RequestParamID))
}

func (handler *Handler) respondWithUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := handler.service.Get(r.Context(), id)
	if err != nil {
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}

// Update
// @Summary Update a user
// @Description Change the role, name or active flag.
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Changes"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [patch]
// @Security BearerAuth
func (handler *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Update")
	defer scope.End()

	var req dto.UpdateUserRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "User updated")
}

// Deactivate
// @Summary Deactivate a user
// @Description Disables login. Users are referenced by bookings and are never removed.
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/users/{id} [delete]
// @Security BearerAuth
func (handler *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".user.Deactivate")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Deactivate(ctx, id); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	log.Info().Str("user_id", id).Str("by", shared.Actor(ctx)).Msg("user deactivated")

	response.WithMessage(w, http.StatusOK, "User deactivated")
}
