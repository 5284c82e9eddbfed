package render

// documentEnvelope wraps an assembled resume body in a fixed single-page
// print layout. The styling is intentionally not configurable; every resume
// the service produces shares the same letter-size envelope.
const documentEnvelope = `<html>
<head>
<meta charset="UTF-8">
<style>
    @page { size: letter; margin: 0.6in; }
    body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; line-height: 1.4; color: #333; }

    .header-table { width: 100%%; margin-bottom: 10px; }
    .photo-cell { width: 120px; vertical-align: middle; }
    .info-cell { vertical-align: middle; padding-left: 20px; }

    .profile-pic {
        width: 100px; height: 100px; object-fit: cover;
        border-radius: 12px; border: 2px solid #e0e0e0;
    }

    h1 { font-size: 22pt; margin: 0; color: #1a365d; text-transform: uppercase; }
    .contact-info { color: #666; font-size: 9pt; margin-top: 5px; }
    .contact-icon { width: 9pt; height: 9pt; vertical-align: middle; margin-right: 2px; }
    .contact-link { color: #666; text-decoration: none; }
    .contact-sep { color: #bbb; }
    .header-line { border: 0; border-bottom: 2px solid #2c3e50; margin: 10px 0 20px 0; }

    h2 { font-size: 12pt; color: #2980b9; border-bottom: 1px solid #ddd; margin-top: 15px; text-transform: uppercase; }

    .job-header { width: 100%%; margin-bottom: 2px; }
    .job-title { text-align: left; }
    .job-date { text-align: right; font-weight: bold; color: #555; }

    ul { padding-left: 15px; margin: 0; }
    li { margin-bottom: 3px; }
</style>
</head>
<body>
%s
</body>
</html>`
