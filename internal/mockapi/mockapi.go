/*
Copyright 2022 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package mockapi serves the console API surface from an in-memory store. It is
// intended for demos and offline development of the terminal UI.
package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	experimentsv1alpha1 "github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1"
	"github.com/thestormforge/tune-console/tuneapi/experiments/v1alpha1/fake"
)

// Server exposes an experiments API implementation over HTTP using the envelope
// responses expected by the console clients.
type Server struct {
	// API is the backing implementation, defaults to an empty in-memory store.
	API experimentsv1alpha1.API
	// Log receives one entry per request.
	Log logr.Logger
	// Token, when set, is the bearer token required on every request.
	Token string
}

// Handler builds the HTTP handler for the full `/api/v1alpha1` route group.
func (s *Server) Handler() http.Handler {
	if s.API == nil {
		s.API = fake.NewAPI()
	}
	if s.Log.GetSink() == nil {
		s.Log = logr.Discard()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		s.logRequest,
		func(c *gin.Context) { c.Header("Cache-Control", "no-store,no-cache") },
	)
	if s.Token != "" {
		r.Use(s.authorize)
	}

	api := r.Group("/api/v1alpha1")

	experiment := api.Group("/experiment")
	experiment.GET("/list", s.getExperimentList)
	experiment.GET("/detail", s.getExperimentDetail)
	experiment.POST("/submitYaml", s.submitYaml)
	experiment.POST("/submitPars", s.submitPars)
	experiment.DELETE("/:namespace/:name", s.deleteExperiment)

	data := api.Group("/data")
	data.GET("/total", s.getClusterTotal)
	data.GET("/request/:podPhase", s.getClusterRequest)
	data.GET("/nodeInfos", s.getNodeInfos)
	data.GET("/namespaces", s.getNamespaces)
	data.GET("/algorithmNames", s.getAlgorithmNames)
	data.GET("/config", s.getConfig)

	serviceVersion := api.Group("/llm-service-version")
	serviceVersion.GET("", s.getServiceVersions)
	serviceVersion.POST("", s.createServiceVersion)

	return r
}

// succeed wraps the payload in a success envelope, the HTTP status is always 200.
func succeed(c *gin.Context, obj interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": "200", "data": obj})
}

// failed reports an application-level rejection, the HTTP status is still 200 and
// the message rides in the data field.
func failed(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"code": "300", "data": msg})
}

// reply renders the outcome of a delegated API call. Missing experiments are
// reported through the HTTP status so clients can tell them apart from rejections.
func reply(c *gin.Context, obj interface{}, err error) {
	switch {
	case err == nil:
		succeed(c, obj)
	case experimentsv1alpha1.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	default:
		failed(c, err.Error())
	}
}

func (s *Server) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.Log.Info("request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start).String(),
	)
}

func (s *Server) authorize(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+s.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) getExperimentList(c *gin.Context) {
	q := &experimentsv1alpha1.ExperimentListQuery{
		Name:      c.Query("name"),
		Namespace: c.Query("namespace"),
		Status:    experimentsv1alpha1.ExperimentStatus(c.Query("status")),
	}

	startTime := c.Query("start_time")
	if startTime == "" {
		failed(c, "start_time should not be empty")
		return
	}
	t, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		failed(c, fmt.Sprintf("failed to parse start time[start_time=%s], err=%s", startTime, err))
		return
	}
	q.StartTime = t

	if endTime := c.Query("end_time"); endTime != "" {
		t, err := time.Parse(time.RFC3339, endTime)
		if err != nil {
			failed(c, fmt.Sprintf("failed to parse end time[end_time=%s], err=%s", endTime, err))
			return
		}
		q.EndTime = t
	} else {
		q.EndTime = time.Now()
	}

	if q.CurrentPage, err = pageValue(c, "current_page"); err != nil {
		failed(c, err.Error())
		return
	}
	if q.PageSize, err = pageValue(c, "page_size"); err != nil {
		failed(c, err.Error())
		return
	}

	lst, err := s.API.ListExperiments(c.Request.Context(), q)
	reply(c, lst, err)
}

func (s *Server) getExperimentDetail(c *gin.Context) {
	q := &experimentsv1alpha1.ExperimentDetailQuery{
		Name:      c.Query("name"),
		Namespace: c.Query("namespace"),
	}
	if q.Name == "" {
		failed(c, "name should not be empty")
		return
	}

	var err error
	if q.CurrentPage, err = pageValue(c, "current_page"); err != nil {
		failed(c, err.Error())
		return
	}
	if q.PageSize, err = pageValue(c, "page_size"); err != nil {
		failed(c, err.Error())
		return
	}

	detail, err := s.API.GetExperimentDetail(c.Request.Context(), q)
	reply(c, gin.H{"peInfo": detail}, err)
}

func (s *Server) submitYaml(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		failed(c, "failed to get raw posted data from request")
		return
	}
	if err := s.API.SubmitYAML(c.Request.Context(), string(data)); err != nil {
		failed(c, fmt.Sprintf("failed to submit experiment, err: %s", err))
		return
	}
	succeed(c, nil)
}

func (s *Server) submitPars(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		failed(c, "failed to get raw posted data from request")
		return
	}

	sub := experimentsv1alpha1.Submission{}
	if err := json.Unmarshal(data, &sub); err != nil {
		failed(c, fmt.Sprintf("failed to submit experiment, err: %s", err))
		return
	}
	if err := s.API.SubmitParameters(c.Request.Context(), sub); err != nil {
		failed(c, fmt.Sprintf("failed to submit experiment, err: %s", err))
		return
	}
	succeed(c, nil)
}

func (s *Server) deleteExperiment(c *gin.Context) {
	err := s.API.DeleteExperiment(c.Request.Context(), c.Param("namespace"), c.Param("name"))
	reply(c, nil, err)
}

func (s *Server) getClusterTotal(c *gin.Context) {
	total, err := s.API.TotalResources(c.Request.Context())
	reply(c, total, err)
}

func (s *Server) getClusterRequest(c *gin.Context) {
	if phase := c.Param("podPhase"); phase != "Running" {
		failed(c, fmt.Sprintf("unsupported pod phase %q", phase))
		return
	}
	req, err := s.API.RunningRequests(c.Request.Context())
	reply(c, req, err)
}

func (s *Server) getNodeInfos(c *gin.Context) {
	nodes, err := s.API.NodeInfos(c.Request.Context())
	reply(c, nodes, err)
}

func (s *Server) getNamespaces(c *gin.Context) {
	ns, err := s.API.Namespaces(c.Request.Context())
	reply(c, ns, err)
}

func (s *Server) getAlgorithmNames(c *gin.Context) {
	names, err := s.API.AlgorithmNames(c.Request.Context())
	reply(c, names, err)
}

func (s *Server) getConfig(c *gin.Context) {
	cfg, err := s.API.Config(c.Request.Context())
	reply(c, cfg, err)
}

func (s *Server) getServiceVersions(c *gin.Context) {
	versions, err := s.API.ListServiceVersions(c.Request.Context())
	reply(c, versions, err)
}

func (s *Server) createServiceVersion(c *gin.Context) {
	sv := experimentsv1alpha1.ServiceVersion{}
	if err := c.ShouldBindJSON(&sv); err != nil {
		failed(c, fmt.Sprintf("failed to parse service version, err: %s", err))
		return
	}
	if sv.Name == "" {
		failed(c, "name should not be empty")
		return
	}

	err := s.API.CreateServiceVersion(c.Request.Context(), sv)
	reply(c, nil, err)
}

func pageValue(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse url parameter[%s=%s], err=%s", name, raw, err)
	}
	return v, nil
}
