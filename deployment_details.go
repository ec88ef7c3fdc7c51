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
	"os"

	"github.com/sirupsen/logrus"
)

var deploymentDetailsMap map[string]string

// initializeDeploymentDetails records where this instance runs, for the
// page footer and startup logs.
func initializeDeploymentDetails(log logrus.FieldLogger) {
	hostname, err := os.Hostname()
	if err != nil {
		log.WithField("error", err).Debug("could not determine hostname")
		hostname = "unknown"
	}
	deploymentDetailsMap = map[string]string{
		"HOSTNAME": hostname,
		"PLATFORM": mapEnvDefault("ENV_PLATFORM", "local"),
	}
	log.WithFields(logrus.Fields{
		"hostname": deploymentDetailsMap["HOSTNAME"],
		"platform": deploymentDetailsMap["PLATFORM"],
	}).Debug("deployment details initialized")
}
