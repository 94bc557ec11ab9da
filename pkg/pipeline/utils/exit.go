/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */
package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// SetupElegantExit returns a context cancelled on SIGINT or SIGTERM. The returned
// cancel function also stops listening to the signals.
func SetupElegantExit(parent context.Context) (context.Context, context.CancelFunc) {
	log.Debugf("entering SetupElegantExit")
	ctx, cancel := context.WithCancel(parent)
	exitSigChan := make(chan os.Signal, 1)
	signal.Notify(exitSigChan, syscall.SIGINT, syscall.SIGTERM)
	log.Debugf("registered exit signal channel")
	go func() {
		select {
		case sig := <-exitSigChan:
			// the running stage completes, the next one is not started
			log.Infof("received exit signal = %v, stopping", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(exitSigChan)
		log.Debugf("exiting SetupElegantExit go function")
	}()
	return ctx, cancel
}
