package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/jirayuth/lounge-booking/internal/config"
)

// recordingWriter tees the response into a buffer while streaming it
// to the client, up to the configured size limit.  Oversized bodies
// keep streaming but stop being buffered, so they are simply never
// cached.
type recordingWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (w *recordingWriter) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
    if w.limit <= 0 {
        w.buf.Write(b)
    } else if remain := w.limit - w.size; remain > 0 {
        if int64(len(b)) <= remain {
            w.buf.Write(b)
        } else {
            w.buf.Write(b[:remain])
        }
    }
    w.size += int64(len(b))
    return w.ResponseWriter.Write(b)
}

// cacheKeyFrom hashes the request coordinates chosen by the key
// strategy into a fixed-size key, so query strings of any length stay
// within Redis key limits.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    route := c.Path()
    query := r.URL.RawQuery

    var tail string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        tail = "route:" + route
    case "method_route":
        tail = "method:" + r.Method + ":route:" + route
    case "method_route_query":
        tail = "method:" + r.Method + ":route:" + route + ":q:" + query
    default: // "route_query"
        tail = "route:" + route + ":q:" + query
    }

    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum)
}

// Cached entries pack status, headers and body into one value:
// [4 bytes status][4 bytes header length][header JSON][body].

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(raw []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(raw) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(raw[0:4]))
    hlen := int(binary.BigEndian.Uint32(raw[4:8]))
    if hlen < 0 || 8+hlen > len(raw) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(raw[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, raw[8+hlen:], true
}

// NewRedisCache fronts the public read endpoints, mainly the bill
// lookup, with a short-TTL response cache.  Only the configured
// methods are considered, so the booking POSTs never hit it.  Headers
// are replayed along with the body so cached and fresh responses look
// identical to the client apart from the X-Cache marker.  Only 200
// responses are stored; with caching disabled or no Redis client
// everything passes through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }
    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(raw); ok {
                    for k, vals := range hdr {
                        // Echo recomputes Content-Length on write.
                        if strings.EqualFold(k, "Content-Length") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    if len(body) > 0 {
                        _, _ = c.Response().Write(body)
                    }
                    return nil
                }
            }

            w := &recordingWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = w
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if w.status == http.StatusOK {
                hdr := make(http.Header, len(c.Response().Header()))
                for k, vals := range c.Response().Header() {
                    hdr[k] = append([]string(nil), vals...)
                }
                body := w.buf.Bytes()
                if maxBody > 0 && int64(len(body)) > maxBody {
                    body = body[:maxBody]
                }
                if payload, err := encodePayload(w.status, hdr, body); err == nil {
                    // Detached context: the store must not be dropped
                    // because the client already hung up.
                    _ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
                }
            }
            return nil
        }
    }
}
