package seed

import "github.com/carmarket/carmarket-go/internal/model"

// Cars is the demo catalogue, one dealer per car.
var Cars = []Car{
	{
		Seller:      "Dubai Luxury Motors",
		Make:        "Mercedes-Benz",
		Model:       "S-Class S 450",
		Year:        2019,
		Price:       259000,
		Mileage:     45000,
		Location:    model.LocationDubai,
		ImageURL:    "https://images.unsplash.com/photo-1460925895917-afdab827c52f?auto=format&fit=crop&q=80&w=900",
		Description: "Luxury sedan in excellent condition. One owner, full service history, accident-free.",
	},
	{
		Seller:      "Premium Auto UAE",
		Make:        "BMW",
		Model:       "X5 xDrive40i",
		Year:        2021,
		Price:       310000,
		Mileage:     32000,
		Location:    model.LocationAbuDhabi,
		ImageURL:    "https://images.unsplash.com/photo-1531297484001-80022131f5a1?auto=format&fit=crop&q=80&w=900",
		Description: "Pristine condition BMW X5 with all premium features. Panoramic roof, head-up display, and premium sound system.",
	},
	{
		Seller:      "Elite Cars",
		Make:        "Audi",
		Model:       "A6 45 TFSI",
		Year:        2020,
		Price:       175000,
		Mileage:     58000,
		Location:    model.LocationSharjah,
		ImageURL:    "https://images.unsplash.com/photo-1483058712412-4245e9b90334?auto=format&fit=crop&q=80&w=900",
		Description: "Well-maintained Audi A6 with full service history. Leather interior, navigation system, and advanced driver assistance features.",
	},
	{
		Seller:      "Emirates Auto",
		Make:        "Land Rover",
		Model:       "Range Rover Sport HSE",
		Year:        2022,
		Price:       425000,
		Mileage:     18000,
		Location:    model.LocationDubai,
		ImageURL:    "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?auto=format&fit=crop&q=80&w=900",
		Description: "Nearly new Range Rover Sport with extended warranty. Premium package with all options and off-road capability.",
	},
	{
		Seller:      "Al Ain Motors",
		Make:        "Lexus",
		Model:       "ES 350",
		Year:        2018,
		Price:       120000,
		Mileage:     65000,
		Location:    model.LocationAlAin,
		ImageURL:    "https://images.unsplash.com/photo-1721322800607-8c38375eef04?auto=format&fit=crop&q=80&w=900",
		Description: "Comfortable and reliable Lexus ES with clean history. Well-maintained with regular service at the dealership.",
	},
	{
		Seller:      "RAK Auto Traders",
		Make:        "Toyota",
		Model:       "Land Cruiser VXR",
		Year:        2021,
		Price:       375000,
		Mileage:     42000,
		Location:    model.LocationRasAlKhaimah,
		ImageURL:    "https://images.unsplash.com/photo-1583121274602-3e2820c69888?auto=format&fit=crop&q=80&w=900",
		Description: "Powerful Land Cruiser with full options. Perfect for both city driving and desert adventures.",
	},
	{
		Seller:      "Dubai Auto Souk",
		Make:        "Nissan",
		Model:       "Patrol Titanium",
		Year:        2020,
		Price:       235000,
		Mileage:     56000,
		Location:    model.LocationDubai,
		ImageURL:    "https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?auto=format&fit=crop&q=80&w=900",
		Description: "Popular UAE SUV with strong performance and reliability. Spacious interior with third-row seating.",
	},
	{
		Seller:      "Capital Motors",
		Make:        "Porsche",
		Model:       "Cayenne",
		Year:        2019,
		Price:       285000,
		Mileage:     38000,
		Location:    model.LocationAbuDhabi,
		ImageURL:    "https://images.unsplash.com/photo-1580273916550-e323be2ae537?auto=format&fit=crop&q=80&w=900",
		Description: "Elegant and sporty Porsche Cayenne with premium features. Sport package with enhanced performance.",
	},
	{
		Seller:      "Future Motors",
		Make:        "Tesla",
		Model:       "Model Y Long Range",
		Year:        2022,
		Price:       265000,
		Mileage:     15000,
		Location:    model.LocationDubai,
		ImageURL:    "https://images.unsplash.com/photo-1619767886558-efdc259cde1a?auto=format&fit=crop&q=80&w=900",
		Description: "All-electric Tesla with impressive range and performance. Autopilot features and regular software updates.",
	},
	{
		Seller:      "Prestige Auto Gallery",
		Make:        "Bentley",
		Model:       "Continental GT",
		Year:        2018,
		Price:       495000,
		Mileage:     28000,
		Location:    model.LocationDubai,
		ImageURL:    "https://images.unsplash.com/photo-1580414057403-c5f451f30e1c?auto=format&fit=crop&q=80&w=900",
		Description: "Luxury Bentley Continental GT with exceptional craftsmanship. Powerful engine with smooth performance.",
	},
	{
		Seller:      "Adventure Motors",
		Make:        "Jeep",
		Model:       "Wrangler Rubicon",
		Year:        2021,
		Price:       210000,
		Mileage:     25000,
		Location:    model.LocationFujairah,
		ImageURL:    "https://images.unsplash.com/photo-1533473359331-0135ef1b58bf?auto=format&fit=crop&q=80&w=900",
		Description: "Off-road ready Jeep Wrangler with upgraded suspension and tires. Perfect for weekend adventures.",
	},
	{
		Seller:      "Kings Auto Luxury",
		Make:        "Mercedes-Benz",
		Model:       "G-Class G 63 AMG",
		Year:        2020,
		Price:       650000,
		Mileage:     32000,
		Location:    model.LocationDubai,
		ImageURL:    "https://images.unsplash.com/photo-1520019817969-33764d47f3d7?auto=format&fit=crop&q=80&w=900",
		Description: "Iconic G-Wagon with AMG performance. Luxurious interior with advanced technology and commanding presence.",
	},
}
