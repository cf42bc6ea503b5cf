package dto

type DisplayURLRequest struct {
	Src     string `query:"src" validate:"required"`
	Width   int    `query:"width" validate:"omitempty,min=1,max=4096"`
	Quality int    `query:"quality"`
	Format  string `query:"format" validate:"omitempty,oneof=origin webp avif jpeg png"`
}

type DisplayURLResponse struct {
	URL string `json:"url"`
}
