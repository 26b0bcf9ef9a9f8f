package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/phoneloom/lib/myconfig"
	"github.com/MarcGrol/phoneloom/lib/mypublisher"
	"github.com/MarcGrol/phoneloom/lib/mypubsub"
	"github.com/MarcGrol/phoneloom/lib/myqueue"
	"github.com/MarcGrol/phoneloom/lib/mystore"
	"github.com/MarcGrol/phoneloom/lib/mytime"
	"github.com/MarcGrol/phoneloom/lib/myuuid"
	"github.com/MarcGrol/phoneloom/services/cart"
	"github.com/MarcGrol/phoneloom/services/catalog"
	"github.com/MarcGrol/phoneloom/services/order"
	"github.com/MarcGrol/phoneloom/services/warmup"
)

func main() {
	c := context.Background()

	cfg, err := myconfig.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s", err)
	}
	if cfg.AdminAPIKey == "" {
		log.Printf("ADMIN_API_KEY not set: admin endpoints will reject every request")
	}

	if cfg.RunsInCloud() {
		log.Printf("Using cloud infrastructure of project %s", cfg.GoogleCloudProject)
	}

	router := mux.NewRouter()
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c, myqueue.Location{
		ProjectID:  cfg.GoogleCloudProject,
		LocationID: cfg.LocationID,
		QueueName:  cfg.QueueName,
	})
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating event publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	phoneStore, phoneStoreCleanup, err := mystore.New[catalog.Phone](c)
	if err != nil {
		log.Fatalf("Error creating phone store: %s", err)
	}
	defer phoneStoreCleanup()
	movementStore, movementStoreCleanup, err := mystore.New[catalog.StockMovement](c)
	if err != nil {
		log.Fatalf("Error creating stock movement store: %s", err)
	}
	defer movementStoreCleanup()
	catalogService := catalog.NewWebService(phoneStore, movementStore, catalog.NewProductCache(cfg.CatalogCacheTTL, nower), pubsub, nower, cfg.AdminAPIKey)

	orderStore, orderStoreCleanup, err := mystore.New[order.Order](c)
	if err != nil {
		log.Fatalf("Error creating order store: %s", err)
	}
	defer orderStoreCleanup()
	orderService := order.NewWebService(orderStore, catalogService, order.NewPayer(cfg.StripeAPIKey), publisher, nower, uuider, cfg.AdminAPIKey)
	err = orderService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering order service: %s", err)
	}

	// The catalog subscribes to the order topic, so it registers after the topic exists
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering catalog service: %s", err)
	}
	if cfg.SeedCatalog {
		seeded, err := catalogService.Seed(c)
		if err != nil {
			log.Fatalf("Error seeding catalog: %s", err)
		}
		log.Printf("Seeded catalog with %d phones", seeded)
	}

	sessionStore, sessionStoreCleanup, err := cart.NewSessionStore(c, cfg.RedisAddr, cfg.RedisPassword, nower, cfg.CartTTL)
	if err != nil {
		log.Fatalf("Error creating cart session store: %s", err)
	}
	defer sessionStoreCleanup()
	cartService := cart.NewWebService(sessionStore, catalogService, orderService, uuider)
	err = cartService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering cart service: %s", err)
	}

	warmup.NewService(catalogService).RegisterEndpoints(c, router)

	startWebServerBlocking(cfg.Port, router)
}

func startWebServerBlocking(port string, router *mux.Router) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
