package main

import (
	"net/http"

	"meetpoint-api/docs"
	"meetpoint-api/internal/config"
	"meetpoint-api/internal/handler"
	"meetpoint-api/internal/middleware"
	"meetpoint-api/internal/provider"
	"meetpoint-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title        Meetpoint API
// @version      1.0
// @description  Recommends meeting places for a group of addresses based on transit accessibility.
// @BasePath     /
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Provider clients. A missing credential leaves that capability nil and
	// the pipeline degrades around it.
	var geocoders []service.Geocoder
	var searchers []service.PlaceSearcher
	var reverse service.ReverseGeocoder

	if config.KakaoRESTKey != "" {
		kakao := provider.NewKakaoClient(config.KakaoRESTKey)
		geocoders = append(geocoders, kakao)
		searchers = append(searchers, kakao)
		reverse = kakao
	}
	if config.NaverClientID != "" && config.NaverClientSecret != "" {
		naver := provider.NewNaverClient(config.NaverClientID, config.NaverClientSecret)
		geocoders = append(geocoders, naver)
		searchers = append(searchers, naver)
	}
	if len(geocoders) == 0 {
		log.Fatal().Msg("no geocoding provider configured; set KAKAO_REST_KEY or NAVER_CLIENT_ID/SECRET")
	}

	var searchFallback service.PlaceSearcher
	var transit service.TransitProvider
	if config.GoogleAPIKey != "" {
		google := provider.NewGoogleClient(config.GoogleAPIKey)
		searchFallback = google
		transit = google
	} else {
		log.Warn().Msg("GOOGLE_API_KEY not set; transit times will be estimated")
	}

	var oracle service.ScoringOracle
	if config.OracleAPIKey != "" {
		oracle = provider.NewChatOracle(config.OracleBaseURL, config.OracleAPIKey, config.OracleModel)
	} else {
		log.Warn().Msg("ORACLE_API_KEY not set; rankings will use the accessibility heuristic")
	}

	// Initialize layers
	pipeline := service.NewPipelineService(
		service.NewGeocodeService(reverse, geocoders...),
		service.NewSearchService(searchFallback, searchers...),
		service.NewAccessibilityService(transit),
		service.NewRecommendService(oracle),
	)
	recommendHandler := handler.NewRecommendHandler(pipeline)

	docs.SwaggerInfo.Host = config.ServerAddress

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.POST("/api/v1/recommendations", recommendHandler.Recommend)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
