package device

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jypelle/tftbridge/apimodel"
	"github.com/jypelle/tftbridge/internal/srv/config"
	"github.com/jypelle/tftbridge/internal/srv/event"
	"github.com/jypelle/tftbridge/internal/tool"
	"github.com/sirupsen/logrus"
	"image"
	"image/png"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"
)

// Api is the HTTP(S) status surface. Requests touching the renderer are forwarded to the
// server event loop through EventChannel.
type Api struct {
	eventChannel chan event.ApiEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config *config.ServerConfig
}

func NewApi(config *config.ServerConfig) *Api {
	api := Api{
		config:       config,
		eventChannel: make(chan event.ApiEvent),
	}

	api.router = mux.NewRouter().StrictSlash(false)

	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Recover and auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						GlobalErrorAction(w, fmt.Sprintf("%v", rec), http.StatusInternalServerError)
					}
				}()

				apiKey := config.ServerParam.ApiParam.ApiKey
				if apiKey != "" && r.Header.Get("x-api-key") != apiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")

	api.apiRouter.HandleFunc("/status",
		func(w http.ResponseWriter, r *http.Request) {
			statusChannel := make(chan apimodel.Status, 1)
			if err := api.forward(r.Context(), event.ApiEventStatusData{Status: statusChannel}); err != nil {
				GlobalErrorAction(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(<-statusChannel); err != nil {
				logrus.Warnf("Unable to encode status: %v", err)
			}
		}).Methods("GET")

	api.apiRouter.HandleFunc("/screenshot",
		func(w http.ResponseWriter, r *http.Request) {
			imageChannel := make(chan image.Image, 1)
			if err := api.forward(r.Context(), event.ApiEventScreenshotData{Image: imageChannel}); err != nil {
				GlobalErrorAction(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			if err := png.Encode(w, <-imageChannel); err != nil {
				logrus.Warnf("Unable to encode screenshot: %v", err)
			}
		}).Methods("GET")

	api.apiRouter.HandleFunc("/icon/toggle",
		func(w http.ResponseWriter, r *http.Request) {
			if err := api.forward(r.Context(), event.ApiEventIconToggleData{}); err != nil {
				GlobalErrorAction(w, err.Error(), http.StatusForbidden)
				return
			}
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("POST")

	headersOk := handlers.AllowedHeaders([]string{"Authorization", "X-Api-Key"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.ApiParam.Port, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

// forward hands data to the event loop and waits for its verdict.
func (d *Api) forward(ctx context.Context, data interface{}) error {
	result := make(chan error, 1)
	select {
	case d.eventChannel <- event.ApiEvent{Result: result, Data: data}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Api) Start() {
	logrus.Infof("Start api device on %s", d.server.Addr)

	if !d.config.ApiParam.Tls {
		go func() {
			err := d.server.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				logrus.Error(err)
			}
		}()
		return
	}

	existServerCert, err := tool.IsFileExists(d.selfSignedCertFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedCertFilename(), err)
	}

	existServerKey, err := tool.IsFileExists(d.selfSignedKeyFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedKeyFilename(), err)
	}

	if !existServerCert || !existServerKey {
		logrus.Info("Missing cert and key files, trying to generate them...")
		err = tool.GenerateTlsCertificate(
			"jypelle",
			"Tftbridge Server",
			d.selfSignedKeyFilename(),
			d.selfSignedCertFilename(),
			[]string{})
		if err != nil {
			logrus.Fatalf("Unable to generate cert and key files : %v\n", err)
		}
		logrus.Info("Self-signed cert and key files generated")
	}

	go func() {
		err := d.server.ListenAndServeTLS(d.selfSignedCertFilename(), d.selfSignedKeyFilename())
		if err != nil && err != http.ErrServerClosed {
			logrus.Error(err)
		}
	}()
}

func (d *Api) StopSendingEvent() {
	logrus.Infof("Stop api device")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		logrus.Warnf("Api shutdown: %v", err)
	}
}

func (d *Api) EventChannel() chan event.ApiEvent {
	return d.eventChannel
}

// Handler returns the api routes, without the compression and CORS wrappers.
func (d *Api) Handler() http.Handler {
	return d.router
}

func (d *Api) selfSignedKeyFilename() string {
	return filepath.Join(d.config.ConfigDir, "key.pem")
}

func (d *Api) selfSignedCertFilename() string {
	return filepath.Join(d.config.ConfigDir, "cert.pem")
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	apimodel.NewErrorMessage(status, "").SendError(w)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	apimodel.NewErrorMessage(status, message).SendError(w)
}
