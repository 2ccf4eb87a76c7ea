package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"salon_crm_backend/internal/middleware"
	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGin(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeAppointmentService records the last request it received.
type fakeAppointmentService struct {
	services.AppointmentService
	lastCreate services.AppointmentRequest
	lastStatus services.StatusUpdateRequest
	lastFilter models.AppointmentFilters
	err        error
}

func (f *fakeAppointmentService) CreateAppointment(ctx context.Context, req services.AppointmentRequest) (*models.Appointment, error) {
	f.lastCreate = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Appointment{ID: 1, CustomerID: req.CustomerID, Status: "pending", TotalAmount: 250}, nil
}

func (f *fakeAppointmentService) GetAppointments(ctx context.Context, filters models.AppointmentFilters) ([]models.Appointment, error) {
	f.lastFilter = filters
	return []models.Appointment{}, f.err
}

func (f *fakeAppointmentService) GetAppointmentByID(ctx context.Context, id int64) (*models.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Appointment{ID: id}, nil
}

func (f *fakeAppointmentService) UpdateAppointmentStatus(ctx context.Context, id int64, req services.StatusUpdateRequest) (*models.Appointment, error) {
	f.lastStatus = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Appointment{ID: id, Status: req.Status}, nil
}

type fakeCustomerService struct {
	services.CustomerService
	lastCreate *services.CreateCustomerRequest
	lastUpdate *services.UpdateCustomerRequest
}

func (f *fakeCustomerService) CreateCustomer(ctx context.Context, req services.CreateCustomerRequest) (*models.Customer, error) {
	f.lastCreate = &req
	return &models.Customer{ID: 21, Name: req.Name, Phone: req.Phone}, nil
}

func (f *fakeCustomerService) UpdateCustomer(ctx context.Context, id int64, req services.UpdateCustomerRequest) (*models.Customer, error) {
	f.lastUpdate = &req
	return &models.Customer{ID: id}, nil
}

type fakeUserService struct {
	services.UserService
	deletedBy int64
}

func (f *fakeUserService) DeleteUser(ctx context.Context, actorID, id int64) error {
	f.deletedBy = actorID
	if actorID == id {
		return services.ErrCannotDeleteSelf
	}
	return nil
}

type fakeAuthService struct {
	services.AuthService
	err error
}

func (f *fakeAuthService) Login(ctx context.Context, req services.LoginRequest) (*models.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.TokenResponse{AccessToken: "tok-" + req.Username, TokenType: "bearer", ExpiresIn: 60}, nil
}

type fakeReportService struct {
	services.ReportService
	period string
}

func (f *fakeReportService) DailyRevenue(ctx context.Context, period string) ([]models.RevenuePoint, error) {
	f.period = period
	return []models.RevenuePoint{}, nil
}

func (f *fakeReportService) MonthlyRevenue(ctx context.Context) ([]models.MonthlyRevenuePoint, error) {
	return []models.MonthlyRevenuePoint{{Month: "2024-06", Revenue: 1200}}, nil
}

// asUser stands in for AuthMiddleware.
func asUser(id int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func perform(r http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func appointmentEngine(svc services.AppointmentService) *gin.Engine {
	h := NewAppointmentHandler(svc)
	r := gin.New()
	r.POST("/appointments", h.CreateAppointment)
	r.GET("/appointments", h.GetAppointments)
	r.GET("/appointments/:id", h.GetAppointmentByID)
	r.PUT("/appointments/:id/status", h.UpdateAppointmentStatus)
	return r
}

func TestCreateAppointment_Created(t *testing.T) {
	svc := &fakeAppointmentService{}
	body := `{"customer_id":7,"date":"2024-05-01","time":"10:00","total_amount":0,"service_ids":[1,2]}`

	w := perform(appointmentEngine(svc), http.MethodPost, "/appointments", "application/json", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []int64{1, 2}, svc.lastCreate.ServiceIDs)
	require.NotNil(t, svc.lastCreate.TotalAmount)
	assert.Zero(t, *svc.lastCreate.TotalAmount)
}

func TestCreateAppointment_BindErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing services", `{"customer_id":7,"date":"2024-05-01","time":"10:00"}`, "service_ids is required"},
		{"bad date", `{"customer_id":7,"date":"May 1","time":"10:00","service_ids":[1]}`, "date must be a date"},
		{"bad time", `{"customer_id":7,"date":"2024-05-01","time":"25:99","service_ids":[1]}`, "time must be a time"},
		{"bad status", `{"customer_id":7,"date":"2024-05-01","time":"10:00","status":"done","service_ids":[1]}`, "status is invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(appointmentEngine(&fakeAppointmentService{}), http.MethodPost, "/appointments", "application/json", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestCreateAppointment_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: 99", services.ErrInvalidServiceReference), http.StatusBadRequest},
		{services.ErrCustomerNotFound, http.StatusNotFound},
		{services.ErrStaffNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: at least one service is required", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}
	body := `{"customer_id":7,"date":"2024-05-01","time":"10:00","service_ids":[1]}`
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := perform(appointmentEngine(&fakeAppointmentService{err: tt.err}), http.MethodPost, "/appointments", "application/json", body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestUpdateAppointmentStatus_FromQuery(t *testing.T) {
	svc := &fakeAppointmentService{}

	w := perform(appointmentEngine(svc), http.MethodPut, "/appointments/5/status?status=completed&payment_status=paid", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", svc.lastStatus.Status)
	require.NotNil(t, svc.lastStatus.PaymentStatus)
	assert.Equal(t, "paid", *svc.lastStatus.PaymentStatus)
	assert.Nil(t, svc.lastStatus.Date)
}

func TestUpdateAppointmentStatus_FromJSON(t *testing.T) {
	svc := &fakeAppointmentService{}

	w := perform(appointmentEngine(svc), http.MethodPut, "/appointments/5/status", "application/json", `{"status":"cancelled","date":"2024-05-09"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cancelled", svc.lastStatus.Status)
	require.NotNil(t, svc.lastStatus.Date)
	assert.Equal(t, "2024-05-09", *svc.lastStatus.Date)
}

func TestUpdateAppointmentStatus_Invalid(t *testing.T) {
	w := perform(appointmentEngine(&fakeAppointmentService{}), http.MethodPut, "/appointments/5/status?status=archived", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(appointmentEngine(&fakeAppointmentService{err: services.ErrAppointmentNotFound}), http.MethodPut, "/appointments/5/status?status=pending", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAppointment_BadID(t *testing.T) {
	w := perform(appointmentEngine(&fakeAppointmentService{}), http.MethodGet, "/appointments/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(appointmentEngine(&fakeAppointmentService{}), http.MethodGet, "/appointments/0", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAppointments_Filters(t *testing.T) {
	svc := &fakeAppointmentService{}

	w := perform(appointmentEngine(svc), http.MethodGet, "/appointments?customer_id=7&status=pending&date_from=2024-05-01", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.lastFilter.CustomerID)
	assert.Equal(t, int64(7), *svc.lastFilter.CustomerID)
	assert.Equal(t, 100, svc.lastFilter.Limit)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDeleteUser_Self(t *testing.T) {
	svc := &fakeUserService{}
	h := NewUserHandler(svc)
	r := gin.New()
	r.DELETE("/users/:id", asUser(3, "admin"), h.DeleteUser)

	w := perform(r, http.MethodDelete, "/users/3", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int64(3), svc.deletedBy)

	w = perform(r, http.MethodDelete, "/users/4", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		contentType string
		body        string
		code        int
	}{
		{"form", nil, "application/x-www-form-urlencoded", "username=admin@example.com&password=pw", http.StatusOK},
		{"json", nil, "application/json", `{"email":"admin@example.com","password":"pw"}`, http.StatusOK},
		{"missing password", nil, "application/json", `{"email":"admin@example.com"}`, http.StatusBadRequest},
		{"bad credentials", services.ErrInvalidCredentials, "application/json", `{"email":"a@b.c","password":"pw"}`, http.StatusUnauthorized},
		{"inactive", services.ErrUserInactive, "application/json", `{"email":"a@b.c","password":"pw"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeAuthService{err: tt.err})
			r := gin.New()
			r.POST("/auth/login", h.Login)

			w := perform(r, http.MethodPost, "/auth/login", tt.contentType, tt.body)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				var resp models.TokenResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "tok-admin@example.com", resp.AccessToken)
				assert.Equal(t, "bearer", resp.TokenType)
			}
		})
	}
}

func TestGetRevenue_DefaultPeriod(t *testing.T) {
	svc := &fakeReportService{}
	h := NewDashboardHandler(svc)
	r := gin.New()
	r.GET("/dashboard/revenue", h.GetRevenue)

	w := perform(r, http.MethodGet, "/dashboard/revenue", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.PeriodMonthly, svc.period)

	perform(r, http.MethodGet, "/dashboard/revenue?period=weekly", "", "")
	assert.Equal(t, services.PeriodWeekly, svc.period)
}

func TestGetMonthlyRevenue(t *testing.T) {
	h := NewDashboardHandler(&fakeReportService{})
	r := gin.New()
	r.GET("/dashboard/revenue/monthly", h.GetMonthlyRevenue)

	w := perform(r, http.MethodGet, "/dashboard/revenue/monthly", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"month":"2024-06","revenue":1200}]`, w.Body.String())
}

func TestParsePage(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		skip, limit, ok := parsePage(c)
		if ok {
			c.JSON(http.StatusOK, gin.H{"skip": skip, "limit": limit})
		}
	})

	w := perform(r, http.MethodGet, "/", "", "")
	assert.JSONEq(t, `{"skip":0,"limit":100}`, w.Body.String())

	for _, q := range []string{"?skip=-1", "?limit=0", "?limit=501", "?skip=x"} {
		w = perform(r, http.MethodGet, "/"+q, "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func customerEngine(svc services.CustomerService) *gin.Engine {
	h := NewCustomerHandler(svc)
	r := gin.New()
	r.POST("/customers", h.CreateCustomer)
	r.PUT("/customers/:id", h.UpdateCustomer)
	return r
}

func TestCreateCustomer_BlankOptionalFields(t *testing.T) {
	svc := &fakeCustomerService{}
	body := `{"name":"Ann","phone":"555","email":"","dob":"","notes":""}`

	w := perform(customerEngine(svc), http.MethodPost, "/customers", "application/json", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.lastCreate)
	assert.Equal(t, "Ann", svc.lastCreate.Name)
}

func TestUpdateCustomer_BlankEmailReachesService(t *testing.T) {
	svc := &fakeCustomerService{}

	w := perform(customerEngine(svc), http.MethodPut, "/customers/7", "application/json", `{"email":"","dob":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.lastUpdate)
	require.NotNil(t, svc.lastUpdate.Email)
	assert.Empty(t, *svc.lastUpdate.Email)
}

func TestCreateCustomer_MissingName(t *testing.T) {
	svc := &fakeCustomerService{}

	w := perform(customerEngine(svc), http.MethodPost, "/customers", "application/json", `{"phone":"555"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.lastCreate)
}

func TestUpdateAppointmentStatus_BlankOptionalQueryValues(t *testing.T) {
	for _, target := range []string{
		"/appointments/5/status?status=completed&payment_status=",
		"/appointments/5/status?status=completed&date=",
		"/appointments/5/status?status=completed&payment_status=&date=",
	} {
		svc := &fakeAppointmentService{}
		w := perform(appointmentEngine(svc), http.MethodPut, target, "", "")
		require.Equal(t, http.StatusOK, w.Code, target+": "+w.Body.String())
		assert.Equal(t, "completed", svc.lastStatus.Status)
	}
}

func TestUpdateAppointmentStatus_BlankOptionalJSONValues(t *testing.T) {
	svc := &fakeAppointmentService{}

	w := perform(appointmentEngine(svc), http.MethodPut, "/appointments/5/status", "application/json", `{"status":"completed","payment_status":"","date":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", svc.lastStatus.Status)
}

func TestCreateAppointment_BlankPaymentStatus(t *testing.T) {
	svc := &fakeAppointmentService{}
	body := `{"customer_id":7,"date":"2024-05-01","time":"10:00","payment_status":"","service_ids":[1]}`

	w := perform(appointmentEngine(svc), http.MethodPost, "/appointments", "application/json", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestGetAppointments_BlankFilters(t *testing.T) {
	svc := &fakeAppointmentService{}

	w := perform(appointmentEngine(svc), http.MethodGet, "/appointments?status=&date_from=&date_to=", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
