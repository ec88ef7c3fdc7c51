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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// The backend is a spreadsheet-backed script runner exposing three calls:
// initial data, order submission and per-user order history. All of them
// are plain HTTP-JSON; a failure is returned to the caller and never
// retried here.

func (fe *frontendServer) getInitialData(ctx context.Context) (*InitialData, error) {
	reqURL := fmt.Sprintf("http://%s/api/initial-data", fe.backendSvcAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := fe.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend: initial data failed: status %d: %s", resp.StatusCode, body)
	}
	var data InitialData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (fe *frontendServer) submitOrder(ctx context.Context, order *OrderSubmission) (*SubmitOrderResponse, error) {
	reqURL := fmt.Sprintf("http://%s/api/orders", fe.backendSvcAddr)
	body, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := fe.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend: submit order failed: status %d: %s", resp.StatusCode, respBody)
	}
	var orderResp SubmitOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, err
	}
	return &orderResp, nil
}

func (fe *frontendServer) getOrderHistory(ctx context.Context, userID string) ([]*OrderHistoryEntry, error) {
	reqURL := fmt.Sprintf("http://%s/api/orders/%s", fe.backendSvcAddr, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := fe.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend: order history failed: status %d: %s", resp.StatusCode, respBody)
	}
	var orders []*OrderHistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, err
	}
	return orders, nil
}
