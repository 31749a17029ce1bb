package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// CartClient calls CartService over a connection using the JSON codec.
type CartClient struct {
	cc grpc.ClientConnInterface
}

func NewCartClient(cc grpc.ClientConnInterface) *CartClient {
	return &CartClient{cc: cc}
}

// WithSession attaches the session id the server keys carts by.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, sessionMetadata, sessionID)
}

func (c *CartClient) GetCart(ctx context.Context) (*CartResponse, error) {
	out := new(CartResponse)
	return out, c.invoke(ctx, "GetCart", &GetCartRequest{}, out)
}

func (c *CartClient) AddItem(ctx context.Context, in *AddItemRequest) (*CartResponse, error) {
	out := new(CartResponse)
	return out, c.invoke(ctx, "AddItem", in, out)
}

func (c *CartClient) RemoveItem(ctx context.Context, in *RemoveItemRequest) (*CartResponse, error) {
	out := new(CartResponse)
	return out, c.invoke(ctx, "RemoveItem", in, out)
}

func (c *CartClient) SetQuantity(ctx context.Context, in *SetQuantityRequest) (*CartResponse, error) {
	out := new(CartResponse)
	return out, c.invoke(ctx, "SetQuantity", in, out)
}

func (c *CartClient) ClearCart(ctx context.Context) (*CartResponse, error) {
	out := new(CartResponse)
	return out, c.invoke(ctx, "ClearCart", &ClearCartRequest{}, out)
}

func (c *CartClient) GetTotals(ctx context.Context, in *TotalsRequest) (*TotalsResponse, error) {
	out := new(TotalsResponse)
	return out, c.invoke(ctx, "GetTotals", in, out)
}

func (c *CartClient) SelectTip(ctx context.Context, in *TipRequest) (*TotalsResponse, error) {
	out := new(TotalsResponse)
	return out, c.invoke(ctx, "SelectTip", in, out)
}

func (c *CartClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest) (*OrderResponse, error) {
	out := new(OrderResponse)
	return out, c.invoke(ctx, "PlaceOrder", in, out)
}

func (c *CartClient) invoke(ctx context.Context, method string, in, out interface{}) error {
	return c.cc.Invoke(ctx, "/"+CartServiceName+"/"+method, in, out, grpc.CallContentSubtype(CodecName))
}
