// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/profiler"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ashleygeoo/LIFF-front-end/cart"
	"github.com/ashleygeoo/LIFF-front-end/catalog"
)

const (
	port         = "8080"
	cookieMaxAge = 60 * 60 * 48

	cookiePrefix    = "shop_"
	cookieSessionID = cookiePrefix + "session-id"
)

var (
	baseURL = ""
)

type ctxKeySessionID struct{}

type frontendServer struct {
	backendSvcAddr string

	lineChannelID     string
	lineChannelSecret string
	lineRedirectURL   string
	lineLoginBase     string
	lineAPIBase       string

	httpClient *http.Client

	catalog      *catalog.Store
	cart         *cart.Store
	statusLabels map[string]string

	mu      sync.Mutex
	loadErr error
}

func main() {
	ctx := context.Background()
	log := logrus.New()
	log.Level = logrus.DebugLevel
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout

	svc := new(frontendServer)
	svc.httpClient = &http.Client{Timeout: 10 * time.Second}
	svc.catalog = catalog.NewStore()
	svc.cart = cart.NewStore(cart.DefaultTTL)

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))

	baseURL = os.Getenv("BASE_URL")

	if os.Getenv("ENABLE_TRACING") == "1" {
		log.Info("Tracing enabled.")
		initTracing(log, ctx)
	} else {
		log.Info("Tracing disabled.")
	}

	if os.Getenv("ENABLE_PROFILER") == "1" {
		log.Info("Profiling enabled.")
		go initProfiling(log, "liff-frontend", "1.0.0")
	} else {
		log.Info("Profiling disabled.")
	}

	srvPort := port
	if os.Getenv("PORT") != "" {
		srvPort = os.Getenv("PORT")
	}
	addr := os.Getenv("LISTEN_ADDR")
	mustMapEnv(&svc.backendSvcAddr, "BACKEND_SERVICE_ADDR")
	mustMapEnv(&svc.lineChannelID, "LINE_CHANNEL_ID")
	mustMapEnv(&svc.lineChannelSecret, "LINE_CHANNEL_SECRET")
	mustMapEnv(&svc.lineRedirectURL, "LINE_REDIRECT_URL")
	svc.lineLoginBase = mapEnvDefault("LINE_LOGIN_BASE_URL", "https://access.line.me")
	svc.lineAPIBase = mapEnvDefault("LINE_API_BASE_URL", "https://api.line.me")

	labels, err := loadStatusLabels(os.Getenv("STATUS_LABELS_PATH"))
	if err != nil {
		log.Fatalf("could not load status labels: %v", err)
	}
	svc.statusLabels = labels

	initializeDeploymentDetails(log)

	// A failed initial load is not fatal: the shop comes up with an empty
	// catalog and a banner, and an operator can hit /_reload once the
	// backend recovers.
	if err := svc.loadInitialData(ctx); err != nil {
		log.WithField("error", err).Error("could not load initial data")
	} else {
		log.WithField("products", len(svc.catalog.Products())).
			WithField("deliveryRules", len(svc.catalog.DeliveryRules())).
			Info("initial data loaded")
	}

	r := mux.NewRouter()
	r.HandleFunc(baseURL+"/", svc.homeHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(baseURL+"/product/{name}", svc.productHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(baseURL+"/cart", svc.viewCartHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(baseURL+"/cart", svc.addToCartHandler).Methods(http.MethodPost)
	r.HandleFunc(baseURL+"/cart/remove", svc.removeFromCartHandler).Methods(http.MethodPost)
	r.HandleFunc(baseURL+"/cart/empty", svc.emptyCartHandler).Methods(http.MethodPost)
	r.HandleFunc(baseURL+"/cart/shipping", svc.selectShippingHandler).Methods(http.MethodPost)
	r.HandleFunc(baseURL+"/checkout", svc.checkoutFormHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(baseURL+"/checkout/place", svc.placeOrderHandler).Methods(http.MethodPost)
	r.HandleFunc(baseURL+"/orders", svc.orderHistoryHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(baseURL+"/login", svc.lineLoginHandler).Methods(http.MethodGet)
	r.HandleFunc(baseURL+"/login/callback", svc.lineCallbackHandler).Methods(http.MethodGet)
	r.HandleFunc(baseURL+"/logout", svc.lineLogoutHandler).Methods(http.MethodGet)
	r.HandleFunc(baseURL+"/_reload", svc.reloadCatalogHandler).Methods(http.MethodPost)
	r.PathPrefix(baseURL + "/static/").Handler(http.StripPrefix(baseURL+"/static/", http.FileServer(http.Dir("./static/"))))
	r.HandleFunc(baseURL+"/robots.txt", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "User-agent: *\nDisallow: /") })
	r.HandleFunc(baseURL+"/_healthz", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, "ok") })

	var handler http.Handler = r
	handler = &logHandler{log: log, next: handler}     // add logging
	handler = ensureSessionID(handler)                 // add session ID
	handler = rememberClientContext(handler)           // remember LINE client marker
	handler = otelhttp.NewHandler(handler, "frontend") // add OTel tracing

	log.Infof("starting server on %s:%s", addr, srvPort)
	log.Fatal(http.ListenAndServe(addr+":"+srvPort, handler))
}

// loadInitialData fetches the catalog snapshot from the backend and swaps
// it into the store.
func (fe *frontendServer) loadInitialData(ctx context.Context) error {
	data, err := fe.getInitialData(ctx)

	fe.mu.Lock()
	fe.loadErr = err
	fe.mu.Unlock()

	if err != nil {
		return err
	}
	fe.catalog.Reload(data.Products, data.DeliveryRules)
	return nil
}

func (fe *frontendServer) lastLoadError() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.loadErr
}

func initTracing(log logrus.FieldLogger, ctx context.Context) (*sdktrace.TracerProvider, error) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	log.Info("Tracing provider initialized (no exporter configured)")
	return tp, nil
}

func initProfiling(log logrus.FieldLogger, service, version string) {
	for i := 1; i <= 3; i++ {
		log = log.WithField("retry", i)
		if err := profiler.Start(profiler.Config{
			Service:        service,
			ServiceVersion: version,
			// ProjectID must be set if not running on GCP.
			// ProjectID: "my-project",
		}); err != nil {
			log.Warnf("warn: failed to start profiler: %+v", err)
		} else {
			log.Info("started Stackdriver profiler")
			return
		}
		d := time.Second * 10 * time.Duration(i)
		log.Debugf("sleeping %v to retry initializing Stackdriver profiler", d)
		time.Sleep(d)
	}
	log.Warn("warning: could not initialize Stackdriver profiler after retrying, giving up")
}
