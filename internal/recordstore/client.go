package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	"github.com/tbestore/storefront/internal/config"
	"github.com/tbestore/storefront/internal/log"
)

var tracer = otel.Tracer("recordstore")

// Table addresses one hosted table inside the record store.
type Table struct {
	BaseID  string
	TableID string
}

type Record struct {
	ID          string                 `json:"id,omitempty"`
	Fields      map[string]interface{} `json:"fields"`
	CreatedTime string                 `json:"createdTime,omitempty"`
}

// Error carries the message the record store returned for a non-2xx response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("record store returned status code=%d with message=%s", e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(cfg config.RecordStore) *Client {
	return &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:    cfg.URL,
		token:      cfg.Token,
	}
}

type recordsEnvelope struct {
	Records []Record `json:"records"`
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (cl *Client) do(
	c context.Context,
	method string,
	table Table,
	rawQuery string,
	payload interface{},
) (*recordsEnvelope, error) {
	c, span := tracer.Start(c, "Client do")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Client do").
		Str(log.KeyTable, table.TableID).
		Str(log.KeyRequestMethod, method).
		Logger()

	endpoint := fmt.Sprintf("%s/%s/%s", cl.baseURL, table.BaseID, table.TableID)
	if rawQuery != "" {
		endpoint = endpoint + "?" + rawQuery
	}

	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			err = fmt.Errorf("failed encoding request payload with error=%w", err)
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(c, method, endpoint, body)
	if err != nil {
		err = fmt.Errorf("failed creating request to record store with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+cl.token)
	req.Header.Add("Content-Type", "application/json")

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed calling record store with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := errorEnvelope{}
		message := "an error occurred"
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil &&
			errBody.Error.Message != "" {
			message = errBody.Error.Message
		}
		err = &Error{StatusCode: resp.StatusCode, Message: message}
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	envelope := recordsEnvelope{}
	if err = json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		err = fmt.Errorf("failed decoding record store response with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return &envelope, nil
}

func (cl *Client) List(c context.Context, table Table) ([]Record, error) {
	c, span := tracer.Start(c, "Client List")
	defer span.End()

	envelope, err := cl.do(c, http.MethodGet, table, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed listing records with error=%w", err)
	}
	return envelope.Records, nil
}

// FindByField returns the first record whose field equals value, or nil when
// no record matches.
func (cl *Client) FindByField(
	c context.Context,
	table Table,
	field string,
	value string,
) (*Record, error) {
	c, span := tracer.Start(c, "Client FindByField")
	defer span.End()

	formula := fmt.Sprintf("{%s} = %q", field, value)
	query := url.Values{"filterByFormula": []string{formula}}.Encode()
	envelope, err := cl.do(c, http.MethodGet, table, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed finding record by field=%s with error=%w", field, err)
	}
	if len(envelope.Records) == 0 {
		return nil, nil
	}
	return &envelope.Records[0], nil
}

// FindAllByField returns every record whose field equals value.
func (cl *Client) FindAllByField(
	c context.Context,
	table Table,
	field string,
	value string,
) ([]Record, error) {
	c, span := tracer.Start(c, "Client FindAllByField")
	defer span.End()

	formula := fmt.Sprintf("{%s} = %q", field, value)
	query := url.Values{"filterByFormula": []string{formula}}.Encode()
	envelope, err := cl.do(c, http.MethodGet, table, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed finding records by field=%s with error=%w", field, err)
	}
	return envelope.Records, nil
}

func (cl *Client) Create(
	c context.Context,
	table Table,
	fields map[string]interface{},
) (Record, error) {
	c, span := tracer.Start(c, "Client Create")
	defer span.End()

	payload := recordsEnvelope{Records: []Record{{Fields: fields}}}
	envelope, err := cl.do(c, http.MethodPost, table, "", payload)
	if err != nil {
		return Record{}, fmt.Errorf("failed creating record with error=%w", err)
	}
	if len(envelope.Records) == 0 {
		return Record{}, fmt.Errorf("record store returned no record after create")
	}
	return envelope.Records[0], nil
}

func (cl *Client) Update(
	c context.Context,
	table Table,
	recordID string,
	fields map[string]interface{},
) (Record, error) {
	c, span := tracer.Start(c, "Client Update")
	defer span.End()

	payload := recordsEnvelope{Records: []Record{{ID: recordID, Fields: fields}}}
	envelope, err := cl.do(c, http.MethodPatch, table, "", payload)
	if err != nil {
		return Record{}, fmt.Errorf("failed updating recordId=%s with error=%w", recordID, err)
	}
	if len(envelope.Records) == 0 {
		return Record{}, fmt.Errorf("record store returned no record after update")
	}
	return envelope.Records[0], nil
}
